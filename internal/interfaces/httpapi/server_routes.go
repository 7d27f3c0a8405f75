package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSeriesRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/series", handler.ListSeries)
	mux.HandleFunc("GET /v1/series/live", handler.StreamSeries)
	mux.HandleFunc("GET /v1/series/{seriesID}", handler.GetSeries)
	mux.HandleFunc("GET /v1/series/{seriesID}/matches", handler.ListSeriesMatches)
	mux.HandleFunc("GET /v1/series/{seriesID}/standings", handler.ListSeriesStandings)
	mux.HandleFunc("GET /v1/series/{seriesID}/squads", handler.ListSeriesSquads)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/series", handler.ListTeamSeries)
	mux.HandleFunc("GET /v1/teams/{teamID}/squads/{seasonID}", handler.GetTeamSquad)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule", handler.ListSchedule)
	mux.HandleFunc("GET /v1/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/stages/{stageID}", handler.GetStage)
	mux.HandleFunc("GET /v1/teams/{teamID}/matches", handler.ListTeamMatches)
	mux.HandleFunc("GET /v1/teams/{teamID}/live", handler.ListTeamLiveMatches)
}

func registerMediaRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/news", handler.SearchNews)
	mux.HandleFunc("GET /v1/videos", handler.SearchVideos)
}
