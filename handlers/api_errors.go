package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/services"
	"github.com/camden-git/familymapbackend/workers"
	"github.com/go-playground/validator/v10"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// Error codes
const (
	CodeBadRequest   = "bad_request"
	CodeValidation   = "validation_failed"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeNotLoaded    = "dataset_not_loaded"
	CodeConflict     = "conflict"
	CodeUpstream     = "family_service_error"
	CodeBusy         = "server_busy"
	CodeCancelled    = "request_cancelled"
	CodeInternal     = "internal_error"
)

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeEngineError maps engine, service and pool errors onto API errors
func writeEngineError(w http.ResponseWriter, lg *logger.Logger, err error) {
	se, isService := services.AsServiceError(err)
	switch {
	case errors.Is(err, graph.ErrPersonNotFound), errors.Is(err, graph.ErrEventNotFound):
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, graph.ErrEventPersonMismatch):
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, graph.ErrNotLoaded), errors.Is(err, graph.ErrRootNotFound):
		WriteAPIError(w, http.StatusConflict, CodeNotLoaded, err.Error())
	case errors.Is(err, graph.ErrStaleSnapshot):
		WriteAPIError(w, http.StatusConflict, CodeConflict, "dataset changed while the request ran, retry")
	case errors.Is(err, services.ErrSessionNotFound):
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "session expired")
	case errors.Is(err, workers.ErrQueueFull), errors.Is(err, workers.ErrPoolStopped):
		WriteAPIError(w, http.StatusServiceUnavailable, CodeBusy, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteAPIError(w, http.StatusServiceUnavailable, CodeCancelled, "request cancelled")
	case isService:
		switch {
		case se.Unauthorized():
			WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, se.Message)
		case se.Status == http.StatusBadRequest, se.Status == http.StatusNotFound:
			WriteAPIError(w, se.Status, CodeBadRequest, se.Message)
		case se.Status >= 500 && se.Status != http.StatusBadGateway && se.Status != http.StatusServiceUnavailable:
			lg.Error("Family service internal error", "op", se.Op, "error", se)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, se.Message)
		default:
			WriteAPIError(w, http.StatusBadGateway, CodeUpstream, se.Message)
		}
	default:
		lg.Error("Unhandled error", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

var validate = validator.New()

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// An empty body is an error unless allowEmpty is set.
func decodeAndValidate(r *http.Request, dst interface{}, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", errValidation, strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

var errValidation = errors.New("validation failed")

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errValidation) {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
}
