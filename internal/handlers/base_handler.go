package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Generic error messages returned to clients
const (
	msgInvalidRequest     = "invalid request"
	msgUsernameTaken      = "username already exists"
	msgInvalidCredentials = "invalid username or password"
	msgUserNotFound       = "user not found"
	msgInternalError      = "internal server error"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a request body into dst, rejecting unknown trailing data
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
