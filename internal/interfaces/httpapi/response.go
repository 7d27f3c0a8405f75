package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "cricket-hub"

	// statusClientClosedRequest is the non standard code logged when the
	// caller hangs up before a response is written.
	statusClientClosedRequest = 499
)

// apiEnvelope wraps every JSON response: data on success, error otherwise.
type apiEnvelope struct {
	APIVersion string    `json:"apiVersion"`
	Data       any       `json:"data,omitempty"`
	Error      *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Status  string           `json:"status"`
	Errors  []apiErrorDetail `json:"errors,omitempty"`
}

type apiErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass maps a sentinel from the usecase or provider layer to its HTTP
// rendering. The first class whose target matches wins.
type errorClass struct {
	target     error
	httpStatus int
	reason     string
	status     string
}

var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "badSeriesRequest", "INVALID_ARGUMENT"},
	{usecase.ErrNotFound, http.StatusNotFound, "cricketResourceNotFound", "NOT_FOUND"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "sportDataUnavailable", "UNAVAILABLE"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "sportDataTimeout", "DEADLINE_EXCEEDED"},
	{context.Canceled, statusClientClosedRequest, "clientClosedRequest", "CANCELLED"},
}

var internalErrorClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	reason:     "internalError",
	status:     "INTERNAL",
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, apiEnvelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err with its class. Internal errors never leak their
// message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	class := classifyError(err)
	message := err.Error()
	if class.httpStatus == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(ctx, w, class.httpStatus, apiEnvelope{
		APIVersion: apiVersion,
		Error: &apiError{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []apiErrorDetail{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}

func classifyError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalErrorClass
}
