package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type M map[string]any

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// RespondLoadError reports a document store read failure.
func RespondLoadError(w http.ResponseWriter, err error) {
	slog.Error("Storage read failed", "error", err)
	RespondWithError(w, http.StatusServiceUnavailable, "could not load trip data, please try again")
}

// RespondSaveError reports a document store write failure. The caller must
// not have applied the change in memory.
func RespondSaveError(w http.ResponseWriter, err error) {
	slog.Error("Storage write failed", "error", err)
	RespondWithError(w, http.StatusBadGateway, "could not save, please try again")
}

var ErrBodyTooLarge = errors.New("request body too large")

const maxBody = 1 << 20

// DecodeJSON reads a JSON request body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return err
	}
	return nil
}
