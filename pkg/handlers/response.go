package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/validation"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads the request body into v and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &BadRequestError{Message: "invalid JSON body", Err: err}
	}
	if err := validation.ValidateStruct(v); err != nil {
		return err
	}
	return nil
}

type BadRequestError struct {
	Message string
	Err     error
}

func (e *BadRequestError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *BadRequestError) Unwrap() error { return e.Err }

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	WriteRaw(w, r, status, data)
}

// WriteRaw writes an already encoded JSON document.
func WriteRaw(w http.ResponseWriter, r *http.Request, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

// WriteError maps err to a status code and an ErrorResponse body.
// Unknown errors are logged and reported as 500 without details.
func WriteError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := api.ErrorResponse{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Details = verr.Details()
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		resp = api.ErrorResponse{Error: http.StatusText(status)}
	}
	WriteJSON(w, r, status, resp)
}
