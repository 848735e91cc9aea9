package rrule

import (
	"testing"
	"time"
)

func TestBuilderString(t *testing.T) {
	until := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		builder Builder
		want    string
	}{
		{
			name:    "weekly default interval",
			builder: Builder{Freq: FreqWeekly},
			want:    "FREQ=WEEKLY",
		},
		{
			name:    "interval of one omitted",
			builder: Builder{Freq: FreqDaily, Interval: 1},
			want:    "FREQ=DAILY",
		},
		{
			name:    "fortnightly on two days with count",
			builder: Builder{Freq: FreqWeekly, Interval: 2, ByDay: []Weekday{Monday, Wednesday}, Count: 5},
			want:    "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=5",
		},
		{
			name:    "byday order preserved",
			builder: Builder{Freq: FreqWeekly, ByDay: []Weekday{Friday, Monday}},
			want:    "FREQ=WEEKLY;BYDAY=FR,MO",
		},
		{
			name:    "monthly until cutoff",
			builder: Builder{Freq: FreqMonthly, Until: &until},
			want:    "FREQ=MONTHLY;UNTIL=20240630T000000Z",
		},
		{
			name:    "count and until both emitted",
			builder: Builder{Freq: FreqDaily, Count: 3, Until: &until},
			want:    "FREQ=DAILY;COUNT=3;UNTIL=20240630T000000Z",
		},
		{
			name:    "yearly",
			builder: Builder{Freq: FreqYearly},
			want:    "FREQ=YEARLY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder.String(); got != tt.want {
				t.Errorf("Builder.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilderUntilNormalizedToUTC(t *testing.T) {
	sydney := time.FixedZone("AEDT", 11*3600)
	until := time.Date(2024, 7, 1, 10, 0, 0, 0, sydney)

	b := Builder{Freq: FreqDaily, Until: &until}
	want := "FREQ=DAILY;UNTIL=20240630T230000Z"
	if got := b.String(); got != want {
		t.Errorf("Builder.String() = %q, want %q", got, want)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want string
	}{
		{
			name: "weekly on monday",
			rule: "FREQ=WEEKLY;BYDAY=MO",
			want: "Every week on Monday",
		},
		{
			name: "fortnightly two days with count",
			rule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=5",
			want: "Every 2 weeks on Monday, Wednesday (5 times)",
		},
		{
			name: "plain daily",
			rule: "FREQ=DAILY",
			want: "Every day",
		},
		{
			name: "monthly with until",
			rule: "FREQ=MONTHLY;UNTIL=20240630T000000Z",
			want: "Every month until 2024-06-30",
		},
		{
			name: "rrule prefix accepted",
			rule: "RRULE:FREQ=YEARLY",
			want: "Every year",
		},
		{
			name: "unknown weekday renders as custom",
			rule: "FREQ=WEEKLY;BYDAY=MO,XX",
			want: "Every week on Monday, Custom",
		},
		{
			name: "empty rule",
			rule: "",
			want: "Custom recurrence",
		},
		{
			name: "unknown frequency",
			rule: "FREQ=FORTNIGHTLY",
			want: "Custom recurrence",
		},
		{
			name: "non-numeric interval",
			rule: "FREQ=WEEKLY;INTERVAL=two",
			want: "Custom recurrence",
		},
		{
			name: "non-numeric count",
			rule: "FREQ=WEEKLY;COUNT=lots",
			want: "Custom recurrence",
		},
		{
			name: "unparseable until",
			rule: "FREQ=WEEKLY;UNTIL=someday",
			want: "Custom recurrence",
		},
		{
			name: "garbage text",
			rule: "every other thursday",
			want: "Custom recurrence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.rule); got != tt.want {
				t.Errorf("Describe(%q) = %q, want %q", tt.rule, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	rule, err := Parse("FREQ=DAILY;COUNT=3", dtstart)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	all := rule.All()
	if len(all) != 3 {
		t.Fatalf("Parse().All() returned %d occurrences, want 3", len(all))
	}
	for i, want := range []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
	} {
		if !all[i].Equal(want) {
			t.Errorf("occurrence %d = %v, want %v", i, all[i], want)
		}
	}
}

func TestParsePrefixAndErrors(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	if _, err := Parse("RRULE:FREQ=DAILY", dtstart); err != nil {
		t.Errorf("Parse() with RRULE: prefix returned error: %v", err)
	}
	if _, err := Parse("FREQ=SOMETIMES", dtstart); err == nil {
		t.Errorf("Parse() with unknown frequency should fail")
	}
	if _, err := Parse("not a rule", dtstart); err == nil {
		t.Errorf("Parse() with garbage should fail")
	}
}

func TestNext(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) // a Monday

	next, err := Next("FREQ=WEEKLY;BYDAY=MO", dtstart, dtstart)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if next == nil {
		t.Fatal("Next() = nil, want an occurrence")
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next() = %v, want %v", next, want)
	}
}

func TestNextExhausted(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	after := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	next, err := Next("FREQ=DAILY;COUNT=2", dtstart, after)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if next != nil {
		t.Errorf("Next() = %v, want nil after rule exhaustion", next)
	}
}

func TestNextMalformed(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if _, err := Next("FREQ=", dtstart, dtstart); err == nil {
		t.Errorf("Next() with malformed rule should fail")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		code   string
		want   Weekday
		wantOk bool
	}{
		{"MO", Monday, true},
		{"we", Wednesday, true},
		{" su ", Sunday, true},
		{"XX", Weekday{}, false},
		{"", Weekday{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseWeekday(tt.code)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, %v, want %v, %v", tt.code, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	if freq, ok := ParseFrequency("weekly"); !ok || freq != FreqWeekly {
		t.Errorf("ParseFrequency(\"weekly\") = %v, %v, want weekly, true", freq, ok)
	}
	if _, ok := ParseFrequency("fortnightly"); ok {
		t.Errorf("ParseFrequency(\"fortnightly\") should not resolve")
	}
}

func TestIsRecurring(t *testing.T) {
	tests := []struct {
		rule string
		want bool
	}{
		{"", false},
		{"FREQ=DAILY", true},
		{"freq=weekly;byday=mo", true},
		{"next monday", false},
	}

	for _, tt := range tests {
		if got := IsRecurring(tt.rule); got != tt.want {
			t.Errorf("IsRecurring(%q) = %v, want %v", tt.rule, got, tt.want)
		}
	}
}
