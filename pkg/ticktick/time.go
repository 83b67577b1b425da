package ticktick

import (
	"fmt"
	"strings"
	"time"
)

// apiTimeLayout is the timestamp format the TickTick API uses on the wire,
// e.g. "2025-02-10T00:00:00.000+0000". Values without an offset are UTC.
const apiTimeLayout = "2006-01-02T15:04:05.000-0700"

// Time wraps time.Time with the TickTick wire format.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(apiTimeLayout, s)
	if err != nil {
		// Some endpoints return plain RFC 3339.
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("failed to parse TickTick time string %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Time.UTC().Format(apiTimeLayout) + `"`), nil
}

// NewTime wraps a time.Time for transport.
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}
