package httpapi

import "net/http"

func (h *Handler) ListSeriesSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeriesSquads")
	defer span.End()

	seriesID := r.PathValue("seriesID")
	items, err := h.teamService.ListSeriesSquads(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "list series squads failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadsToDTO(items))
}

func (h *Handler) ListTeamSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamSeries")
	defer span.End()

	teamID, err := h.pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.teamService.ListTeamSeries(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team series failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSeriesToDTO(items))
}

func (h *Handler) GetTeamSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSquad")
	defer span.End()

	teamID, err := h.pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := h.pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.GetTeamSquad(ctx, teamID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team squad failed", "team_id", teamID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(item))
}
