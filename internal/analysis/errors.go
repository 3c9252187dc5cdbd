package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across the hard-stop taxonomy.
var (
	ErrConfig = errors.New("configuration error")
	ErrSchema = errors.New("schema error")
	ErrParse  = errors.New("parse error")
	ErrIO     = errors.New("input error")
)

// ConfigError indicates invalid run parameters, e.g. end before start.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// SchemaError indicates a required column or the platform could not be
// determined from the export.
type SchemaError struct {
	// Artifact names what is missing: "date column", "view column", "platform".
	Artifact string
	Message  string
}

func (e *SchemaError) Error() string { return e.Message }

func (e *SchemaError) Unwrap() error { return ErrSchema }

// DateParseError indicates no value of the date column could be parsed.
type DateParseError struct {
	Column string
	Rows   int
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("date column %q cannot be parsed as date/time (%d rows, none readable)", e.Column, e.Rows)
}

func (e *DateParseError) Unwrap() error { return ErrParse }

// DecodeError indicates the upload could not be read as delimited text.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "decode failed"
	}
	if e.Name != "" {
		return fmt.Sprintf("cannot read %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cannot read input: %v", e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrIO, e.Err} }

// ErrorCode maps a hard-stop error to a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrConfig):
		return "INVALID_PARAMETERS"
	case errors.Is(err, ErrSchema):
		return "SCHEMA_MISMATCH"
	case errors.Is(err, ErrParse):
		return "UNPARSEABLE_DATES"
	case errors.Is(err, ErrIO):
		return "UNREADABLE_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Stage names the pipeline step that emptied the working set.
type Stage string

const (
	StageFilter   Stage = "filter"
	StageClassify Stage = "classify"
	StageNumeric  Stage = "numeric"
)

// Warning is a soft stop: the run completed but produced no aggregate.
type Warning struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}
