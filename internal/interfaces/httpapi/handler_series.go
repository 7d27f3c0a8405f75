package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type listSeriesQuery struct {
	Wait bool
}

func parseListSeriesQuery(r *http.Request) (listSeriesQuery, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("wait"))
	if raw == "" {
		return listSeriesQuery{}, nil
	}
	wait, err := strconv.ParseBool(raw)
	if err != nil {
		return listSeriesQuery{}, fmt.Errorf("%w: wait must be a boolean, got %q", usecase.ErrInvalidInput, raw)
	}
	return listSeriesQuery{Wait: wait}, nil
}

func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeries")
	defer span.End()

	query, err := parseListSeriesQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.seriesService.ListSeries(ctx, usecase.ListSeriesInput{Wait: query.Wait})
	if err != nil {
		h.logger.WarnContext(ctx, "list series failed", "wait", query.Wait, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seriesListToDTO(rows))
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeries")
	defer span.End()

	seriesID := r.PathValue("seriesID")
	row, err := h.seriesService.GetSeries(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "get series failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seriesToDTO(row))
}

func (h *Handler) ListSeriesMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeriesMatches")
	defer span.End()

	seriesID := r.PathValue("seriesID")
	items, err := h.seriesService.ListSeriesMatches(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "list series matches failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(items))
}

func (h *Handler) ListSeriesStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeriesStandings")
	defer span.End()

	seriesID := r.PathValue("seriesID")
	items, err := h.seriesService.ListSeriesStandings(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "list series standings failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}
