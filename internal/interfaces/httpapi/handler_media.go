package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

type searchNewsQuery struct {
	Q   string `validate:"max=200"`
	Max int
}

type searchVideosQuery struct {
	Q string `validate:"required,max=200"`
}

func (h *Handler) SearchNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchNews")
	defer span.End()

	values := r.URL.Query()
	query := searchNewsQuery{Q: strings.TrimSpace(values.Get("q"))}
	// Unparseable max falls back to the service default.
	if v, err := strconv.Atoi(strings.TrimSpace(values.Get("max"))); err == nil {
		query.Max = v
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.mediaService.SearchNews(ctx, query.Q, query.Max)
	if err != nil {
		h.logger.WarnContext(ctx, "search news failed", "query", query.Q, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, articlesToDTO(items))
}

func (h *Handler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchVideos")
	defer span.End()

	query := searchVideosQuery{Q: strings.TrimSpace(r.URL.Query().Get("q"))}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.mediaService.SearchVideos(ctx, query.Q)
	if err != nil {
		h.logger.WarnContext(ctx, "search videos failed", "query", query.Q, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, videosToDTO(items))
}
