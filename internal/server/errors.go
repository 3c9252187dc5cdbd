package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Artifact   string `json:"artifact,omitempty"`
}

func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// errorFor maps a hard stop to its HTTP form. Undecodable uploads are 422,
// other analysis stops 400, anything unexpected 500.
func errorFor(err error) *APIError {
	e := &APIError{ErrorCode: analysis.ErrorCode(err), Message: err.Error()}
	switch {
	case errors.Is(err, analysis.ErrIO):
		e.StatusCode = http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrConfig), errors.Is(err, analysis.ErrSchema), errors.Is(err, analysis.ErrParse):
		e.StatusCode = http.StatusBadRequest
	default:
		e.StatusCode = http.StatusInternalServerError
	}

	var (
		cfgErr    *analysis.ConfigError
		schemaErr *analysis.SchemaError
		dateErr   *analysis.DateParseError
		decodeErr *analysis.DecodeError
	)
	switch {
	case errors.As(err, &cfgErr):
		e.Artifact = cfgErr.Field
	case errors.As(err, &schemaErr):
		e.Artifact = schemaErr.Artifact
	case errors.As(err, &dateErr):
		e.Artifact = dateErr.Column
	case errors.As(err, &decodeErr):
		e.Artifact = decodeErr.Name
	}
	return e
}
