package timezone

import (
	"testing"
	"time"
)

func TestOffsetMinutes(t *testing.T) {
	tests := []struct {
		name string
		zone string
		at   time.Time
		want int
	}{
		{
			name: "sydney winter standard time",
			zone: "Australia/Sydney",
			at:   time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
			want: 600,
		},
		{
			name: "sydney january daylight saving",
			zone: "Australia/Sydney",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 660,
		},
		{
			name: "sydney november daylight saving",
			zone: "Australia/Sydney",
			at:   time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC),
			want: 660,
		},
		{
			name: "melbourne shares the sydney clock",
			zone: "Australia/Melbourne",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 660,
		},
		{
			name: "brisbane never shifts",
			zone: "Australia/Brisbane",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 600,
		},
		{
			name: "adelaide half hour plus daylight saving",
			zone: "Australia/Adelaide",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 630,
		},
		{
			name: "perth fixed",
			zone: "Australia/Perth",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 480,
		},
		{
			name: "new york negative offset",
			zone: "America/New_York",
			at:   time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
			want: -300,
		},
		{
			name: "unknown zone resolves to utc",
			zone: "Mars/Olympus_Mons",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "empty zone resolves to utc",
			zone: "",
			at:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OffsetMinutes(tt.zone, tt.at); got != tt.want {
				t.Errorf("OffsetMinutes(%q, %v) = %d, want %d", tt.zone, tt.at, got, tt.want)
			}
		})
	}
}

func TestDSTWindowBoundaries(t *testing.T) {
	// 2024: first Sunday of October is the 6th, first Sunday of April the 7th.
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"just before october start", time.Date(2024, 10, 5, 23, 0, 0, 0, time.UTC), 600},
		{"october start is inclusive", time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC), 660},
		{"day before april end", time.Date(2024, 4, 6, 12, 0, 0, 0, time.UTC), 660},
		{"april end is exclusive", time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), 600},
		{"midwinter", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 600},
		{"new years day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 660},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OffsetMinutes("Australia/Sydney", tt.at); got != tt.want {
				t.Errorf("OffsetMinutes(Australia/Sydney, %v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestToUTCFromUTC(t *testing.T) {
	// Sydney 09:00 on 15 Jan runs UTC+11, so the UTC instant is 22:00 the
	// previous day.
	local := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	utc := ToUTC(local, "Australia/Sydney")

	wantUTC := time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC)
	if !utc.Equal(wantUTC) {
		t.Errorf("ToUTC() = %v, want %v", utc, wantUTC)
	}

	back := FromUTC(wantUTC, "Australia/Sydney")
	if !back.Equal(local) {
		t.Errorf("FromUTC() = %v, want %v", back, local)
	}
}

func TestToUTCUnknownZoneIsIdentity(t *testing.T) {
	at := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	if got := ToUTC(at, "Atlantis/Central"); !got.Equal(at) {
		t.Errorf("ToUTC() = %v, want unchanged %v", got, at)
	}
	if got := FromUTC(at, "Atlantis/Central"); !got.Equal(at) {
		t.Errorf("FromUTC() = %v, want unchanged %v", got, at)
	}
}

func TestIn(t *testing.T) {
	utc := time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC)
	local := In(utc, "Australia/Sydney")

	if got := local.Format("2006-01-02 15:04"); got != "2024-01-15 09:00" {
		t.Errorf("In() formats as %q, want %q", got, "2024-01-15 09:00")
	}
	if !local.Equal(utc) {
		t.Errorf("In() changed the instant: %v != %v", local, utc)
	}
}
