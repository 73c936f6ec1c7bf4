package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"foodorder/internal/service"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes before writing the status, so an unencodable value is
// answered with a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(messageResponse{Message: "Internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeServiceError maps service errors to client responses. Anything it does
// not recognize is logged and answered with the generic fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrInvalidStatus):
		writeMessage(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, service.ErrMealExists):
		writeMessage(w, http.StatusBadRequest, "A meal with this id already exists")
	case errors.Is(err, service.ErrMealNotFound):
		writeMessage(w, http.StatusNotFound, "Meal not found")
	case errors.Is(err, service.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Order not found")
	default:
		slog.Error(fallback, "error", err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
