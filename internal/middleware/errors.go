package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape middleware uses for rejected requests.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, errText, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Status:  status,
		Error:   errText,
		Message: message,
	})
}
