package httpapi

import (
	"errors"
	"net/http"

	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

var errHandlerPanicked = errors.New("handler panicked")

type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
	Logger             *logging.Logger
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := logging.OrDefault(cfg.Logger)
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "cricket-hub"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerSeriesRoutes(mux, handler)
	registerScheduleRoutes(mux, handler)
	registerTeamRoutes(mux, handler)
	registerMediaRoutes(mux, handler)

	return RequestTracing(serviceName, RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeError(r.Context(), w, errHandlerPanicked)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
