package dbtime

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		t.Skip("tzdata not available")
	}
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-05-01T18:00:00Z", time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)},
		{"2026-05-01T18:00:00+01:00", time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)},
		{"2026-05-01 18:00", time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)},
		{"2026-05-01", time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDateTime(tc.in, lagos)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "tomorrow", "01/05/2026"} {
		if _, err := ParseDateTime(bad, lagos); !IsInvalidDate(err) {
			t.Fatalf("%q accepted", bad)
		}
	}
}
