// Package shared holds the response helpers used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// WriteJSON renders v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// WriteError maps a coded error to its HTTP status. Errors without a code
// render as 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	description := "internal error"
	var de *domainerrors.Error
	if errors.As(err, &de) {
		description = de.Message
	}
	WriteJSON(w, domainerrors.ToHTTPStatus(code), errorBody{
		Error:       string(code),
		Description: description,
	})
}
