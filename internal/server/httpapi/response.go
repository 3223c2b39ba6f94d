package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tutorhub/internal/common"
)

// envelope is the body of every response.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  []common.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

const internalMessage = "internal server error"

// errorStatus maps domain errors to a status code and a public message.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{common.ErrInvalidID, http.StatusBadRequest, "invalid id"},
	{common.ErrTutorNotInterested, http.StatusBadRequest, "tutor has not expressed interest in this post"},
	{common.ErrPostNotOpen, http.StatusBadRequest, "post is no longer open"},
	{common.ErrAlreadyExists, http.StatusBadRequest, "email is already registered"},
	{common.ErrIncorrectPassword, http.StatusBadRequest, "current password is incorrect"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "invalid credentials"},
	{common.ErrMissingToken, http.StatusUnauthorized, "authentication required"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
	{common.ErrForbidden, http.StatusForbidden, "you are not allowed to perform this action"},
	{common.ErrorNotFound, http.StatusNotFound, "not found"},
	{common.ErrVersionConflict, http.StatusConflict, "the resource was modified concurrently, try again"},
}

// writeError responds with the status for err. Unrecognised errors are
// logged and answered with a generic 500.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, envelope{Message: ve.Error(), Errors: ve.Fields})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeJSON(w, e.status, envelope{Message: e.message})
			return
		}
	}

	a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, envelope{Message: internalMessage})
}

// decodeJSON reads the request body into dst. Malformed JSON is reported as
// a validation error; so is a salary that is neither a number nor a numeric
// string.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var se *salaryError
		if errors.As(err, &se) {
			return common.NewValidationError("salary", "salary must be a number")
		}
		return common.NewValidationError("body", "request body must be valid JSON")
	}
	return nil
}
