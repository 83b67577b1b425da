package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a much longer title that overflows", 10, "a much ..."},
		{"héllo wörld overflows", 10, "héllo w..."},
		{"ab", 2, "ab"},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.max); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestPrintTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"ID", "Name"}, [][]string{
		{"1", "short"},
		{"2", "a longer value"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header, separator, and two rows; got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("Unexpected header line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "--") {
		t.Errorf("Expected a dashed separator, got %q", lines[1])
	}
	// Every row should be padded to the same column start.
	nameCol := strings.Index(lines[0], "Name")
	if strings.Index(lines[2], "short") != nameCol {
		t.Errorf("Row 1 name column misaligned: %q", lines[2])
	}
	if strings.Index(lines[3], "a longer value") != nameCol {
		t.Errorf("Row 2 name column misaligned: %q", lines[3])
	}
}
