package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"linkcook-go/internal/api"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteData wraps data in a successful envelope.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	writeJSON(w, status, api.Envelope{Success: true, Data: raw})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Envelope{Success: true, Message: message})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.Envelope{Success: false, Code: code, Message: message})
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after json body")
	}
	return nil
}

// DecodeOptionalJSON accepts an empty body and leaves dst untouched.
func DecodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := DecodeJSON(r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
