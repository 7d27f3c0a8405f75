package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const defaultStreamWriteTimeout = 10 * time.Second

type HandlerConfig struct {
	// AllowedOrigins gates websocket upgrades the same way CORS gates
	// requests. Empty or "*" accepts every origin.
	AllowedOrigins     []string
	StreamWriteTimeout time.Duration
	Logger             *logging.Logger
}

type Handler struct {
	seriesService   *usecase.SeriesService
	scheduleService *usecase.ScheduleService
	mediaService    *usecase.MediaService
	teamService     *usecase.TeamService
	logger          *logging.Logger
	validator       *validator.Validate
	upgrader        websocket.Upgrader
	writeTimeout    time.Duration
}

func NewHandler(
	seriesService *usecase.SeriesService,
	scheduleService *usecase.ScheduleService,
	mediaService *usecase.MediaService,
	teamService *usecase.TeamService,
	cfg HandlerConfig,
) *Handler {
	writeTimeout := cfg.StreamWriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultStreamWriteTimeout
	}

	return &Handler{
		seriesService:   seriesService,
		scheduleService: scheduleService,
		mediaService:    mediaService,
		teamService:     teamService,
		logger:          logging.OrDefault(cfg.Logger).Named("httpapi"),
		validator:       validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		writeTimeout: writeTimeout,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type idParam struct {
	Name string
	ID   int64 `validate:"gt=0"`
}

// pathID reads a positive numeric path value.
func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be numeric, got %q", usecase.ErrInvalidInput, name, raw)
	}
	if err := h.validateRequest(r.Context(), idParam{Name: name, ID: id}); err != nil {
		return 0, err
	}
	return id, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowMap := make(map[string]struct{}, len(allowed))
	allowAll := len(allowed) == 0
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		if origin != "" {
			allowMap[origin] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		_, ok := allowMap[origin]
		return ok
	}
}
