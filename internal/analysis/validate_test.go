package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestValidateRequest(t *testing.T) {
	ok := Request{Start: day(t, "2025-10-01"), End: day(t, "2025-10-01"), Platform: "ig"}
	assert.NoError(t, ValidateRequest(ok))

	err := ValidateRequest(Request{Start: day(t, "2025-10-02"), End: day(t, "2025-10-01")})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "end", cfgErr.Field)
	assert.Contains(t, cfgErr.Message, "end date 2025-10-01 is earlier than start date 2025-10-02")

	err = ValidateRequest(Request{End: day(t, "2025-10-01")})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "start", cfgErr.Field)

	err = ValidateRequest(Request{Start: day(t, "2025-10-01"), End: day(t, "2025-10-01"), Platform: "tiktok"})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "platform", cfgErr.Field)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestNewRequest(t *testing.T) {
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	req, err := NewRequest("", "", " Facebook ", "Plays", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-28", req.Start.Format(DayLayout))
	assert.Equal(t, "2025-10-05", req.End.Format(DayLayout))
	assert.Equal(t, "Facebook", req.Platform)
	assert.Equal(t, "Plays", req.ViewColumn)

	req, err = NewRequest("2025-01-01", "2025-01-31", "", "", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", req.Start.Format(DayLayout))

	_, err = NewRequest("2025-02-30", "", "", "", now, time.UTC)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "start", cfgErr.Field)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "INVALID_PARAMETERS", ErrorCode(&ConfigError{Message: "x"}))
	assert.Equal(t, "SCHEMA_MISMATCH", ErrorCode(&SchemaError{Artifact: "platform"}))
	assert.Equal(t, "UNPARSEABLE_DATES", ErrorCode(&DateParseError{Column: "Date"}))
	assert.Equal(t, "UNREADABLE_INPUT", ErrorCode(&DecodeError{Name: "a.csv", Err: errors.New("boom")}))
	assert.Equal(t, "INTERNAL_ERROR", ErrorCode(errors.New("other")))
}
