package analysis

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Request carries the per-run parameters supplied by the caller.
type Request struct {
	// Start and End are calendar dates; only their Y/M/D fields are used.
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required,gtefield=Start"`
	Platform   string    `json:"platform" validate:"omitempty,oneof=auto unknown facebook instagram fb ig"`
	ViewColumn string    `json:"view_column"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest checks the run parameters before any data is touched.
func ValidateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Message: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ConfigError{Field: fe.Field(), Message: "a date is required"}
	case "gtefield":
		return &ConfigError{
			Field: fe.Field(),
			Message: fmt.Sprintf("end date %s is earlier than start date %s",
				req.End.Format(DayLayout), req.Start.Format(DayLayout)),
		}
	case "oneof":
		return &ConfigError{Field: fe.Field(), Message: fmt.Sprintf("unsupported value %q (use facebook|instagram|auto)", req.Platform)}
	default:
		return &ConfigError{Field: fe.Field(), Message: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}

// NewRequest builds a Request from user input. Dates are YYYY-MM-DD; an
// empty bound falls back to DefaultRange evaluated at now in loc.
func NewRequest(start, end, platform, viewColumn string, now time.Time, loc *time.Location) (Request, error) {
	defStart, defEnd := DefaultRange(now, loc)
	req := Request{Start: defStart, End: defEnd, Platform: strings.TrimSpace(platform), ViewColumn: strings.TrimSpace(viewColumn)}
	if strings.TrimSpace(start) != "" {
		t, err := ParseDay(start)
		if err != nil {
			return Request{}, &ConfigError{Field: "start", Message: err.Error()}
		}
		req.Start = t
	}
	if strings.TrimSpace(end) != "" {
		t, err := ParseDay(end)
		if err != nil {
			return Request{}, &ConfigError{Field: "end", Message: err.Error()}
		}
		req.End = t
	}
	return req, nil
}
