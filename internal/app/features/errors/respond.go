// internal/app/features/errors/respond.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Payload is the body of a success envelope. Callers add their own keys
// next to "success": true.
type Payload map[string]any

// WriteSuccess writes a success envelope with the given status and merges
// the payload's keys into it.
func WriteSuccess(w http.ResponseWriter, status int, payload Payload) {
	body := make(map[string]any, len(payload)+1)
	body["success"] = true
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
