package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/riskcheck"
	"lifestory/internal/errs"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(errs.KindOf(err))
	ctx := r.Context()
	if status >= http.StatusInternalServerError {
		logging.Error(ctx, "request failed", slog.Int("status", status), slog.Any("err", errs.Loggable(err)))
	} else {
		logging.Warn(ctx, "request rejected", slog.Int("status", status), slog.Any("err", errs.Loggable(err)))
	}
	writeJSON(w, status, envelope{Success: false, Error: publicMessage(err)})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindPrecondition:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindGeneration:
		return http.StatusBadGateway
	case errs.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps upstream and storage details out of responses.
func publicMessage(err error) string {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindNotFound, errs.KindPrecondition, errs.KindConflict:
		return err.Error()
	case errs.KindGeneration:
		if errors.Is(err, riskcheck.ErrMalformedResponse) {
			return riskcheck.ErrMalformedResponse.Error()
		}
		return "text generation failed"
	case errs.KindTimeout:
		return "upstream service timed out, please retry"
	default:
		return "internal server error"
	}
}
