package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vplay-cli/vplay/log"
)

const maxJSONBody = 1 << 20

// Envelope wraps every JSON response that is not a bare status.
type Envelope map[string]any

func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("write response: %s", err)
	}
}
