package ticktick

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeUnmarshalWireFormat(t *testing.T) {
	var parsed Time
	if err := json.Unmarshal([]byte(`"2025-02-10T00:00:00.000+0000"`), &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("Expected %v, got %v", want, parsed.Time)
	}
}

func TestTimeUnmarshalRFC3339Fallback(t *testing.T) {
	var parsed Time
	if err := json.Unmarshal([]byte(`"2025-02-10T09:30:00Z"`), &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("Expected %v, got %v", want, parsed.Time)
	}
}

func TestTimeUnmarshalEmptyAndNull(t *testing.T) {
	for _, raw := range []string{`""`, `null`} {
		var parsed Time
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", raw, err)
		}
		if !parsed.IsZero() {
			t.Errorf("Expected zero time for %s, got %v", raw, parsed.Time)
		}
	}
}

func TestTimeMarshalRoundTrip(t *testing.T) {
	original := NewTime(time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC))
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2025-02-10T09:30:00.000+0000"` {
		t.Errorf("Unexpected wire value: %s", data)
	}

	var decoded Time
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(original.Time) {
		t.Errorf("Round trip changed the instant: %v vs %v", original.Time, decoded.Time)
	}
}

func TestNormalizeHost(t *testing.T) {
	cases := map[string]struct {
		host string
		ok   bool
	}{
		"ticktick.com": {"ticktick.com", true},
		"dida365.com":  {"dida365.com", true},
		"":             {"ticktick.com", true},
		"example.com":  {"", false},
	}
	for input, want := range cases {
		host, ok := NormalizeHost(input)
		if ok != want.ok {
			t.Errorf("NormalizeHost(%q) ok = %v, want %v", input, ok, want.ok)
			continue
		}
		if ok && host != want.host {
			t.Errorf("NormalizeHost(%q) = %s, want %s", input, host, want.host)
		}
	}
}
