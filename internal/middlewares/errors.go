package middlewares

import (
	"encoding/json"
	"net/http"
)

// WriteError answers with the {"error": message} body used across the API
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
