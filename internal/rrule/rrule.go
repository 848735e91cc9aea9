package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Aliases so callers build rules without importing the underlying library.
type (
	Frequency = rrule.Frequency
	Weekday   = rrule.Weekday
)

// Frequencies accepted by the builder
const (
	FreqDaily   = rrule.DAILY
	FreqWeekly  = rrule.WEEKLY
	FreqMonthly = rrule.MONTHLY
	FreqYearly  = rrule.YEARLY
)

// Weekday constants
var (
	Monday    = rrule.MO
	Tuesday   = rrule.TU
	Wednesday = rrule.WE
	Thursday  = rrule.TH
	Friday    = rrule.FR
	Saturday  = rrule.SA
	Sunday    = rrule.SU
)

// Parse parses a recurrence rule string anchored at dtstart.
// All rule math happens in UTC; dtstart is normalized before anchoring.
func Parse(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule: %w", err)
	}

	opt.Dtstart = dtstart.UTC()
	return rrule.NewRRule(*opt)
}

// Next returns the first occurrence strictly after the given time.
// Returns nil if the rule generates no more occurrences.
func Next(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := Parse(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after.UTC(), false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// Builder assembles a recurrence rule string from components.
// The output carries only the keys FREQ, INTERVAL, BYDAY, COUNT, UNTIL in
// that order, with defaults omitted; stored rules depend on this exact shape.
type Builder struct {
	Freq     Frequency
	Interval int
	ByDay    []Weekday
	Count    int
	Until    *time.Time
}

func (b *Builder) String() string {
	var parts []string

	// Frequency
	freqMap := map[rrule.Frequency]string{
		rrule.DAILY:   "DAILY",
		rrule.WEEKLY:  "WEEKLY",
		rrule.MONTHLY: "MONTHLY",
		rrule.YEARLY:  "YEARLY",
	}
	parts = append(parts, fmt.Sprintf("FREQ=%s", freqMap[b.Freq]))

	// Interval, omitted at the default of 1
	if b.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", b.Interval))
	}

	// ByDay, caller order preserved
	if len(b.ByDay) > 0 {
		days := make([]string, len(b.ByDay))
		dayMap := map[rrule.Weekday]string{
			rrule.MO: "MO",
			rrule.TU: "TU",
			rrule.WE: "WE",
			rrule.TH: "TH",
			rrule.FR: "FR",
			rrule.SA: "SA",
			rrule.SU: "SU",
		}
		for i, d := range b.ByDay {
			days[i] = dayMap[d]
		}
		parts = append(parts, fmt.Sprintf("BYDAY=%s", strings.Join(days, ",")))
	}

	// Count
	if b.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", b.Count))
	}

	// Until. Count and Until are two different termination strategies; the
	// builder emits whichever is set and does not reject both at once.
	if b.Until != nil {
		parts = append(parts, fmt.Sprintf("UNTIL=%s", b.Until.UTC().Format("20060102T150405Z")))
	}

	return strings.Join(parts, ";")
}

// ParseWeekday maps a two-letter weekday code to its rule weekday.
func ParseWeekday(code string) (Weekday, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "MO":
		return rrule.MO, true
	case "TU":
		return rrule.TU, true
	case "WE":
		return rrule.WE, true
	case "TH":
		return rrule.TH, true
	case "FR":
		return rrule.FR, true
	case "SA":
		return rrule.SA, true
	case "SU":
		return rrule.SU, true
	}
	return Weekday{}, false
}

// ParseFrequency maps a frequency name to its rule frequency.
func ParseFrequency(name string) (Frequency, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DAILY":
		return rrule.DAILY, true
	case "WEEKLY":
		return rrule.WEEKLY, true
	case "MONTHLY":
		return rrule.MONTHLY, true
	case "YEARLY":
		return rrule.YEARLY, true
	}
	return 0, false
}

// Describe renders a rule string as a human-readable phrase, e.g.
// "Every 2 weeks on Monday, Wednesday (5 times)". Malformed input never
// fails; it describes as "Custom recurrence".
func Describe(ruleStr string) string {
	const fallback = "Custom recurrence"

	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	parts := strings.Split(ruleStr, ";")
	info := make(map[string]string)
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 {
			info[kv[0]] = kv[1]
		}
	}

	unitMap := map[string]string{
		"DAILY":   "day",
		"WEEKLY":  "week",
		"MONTHLY": "month",
		"YEARLY":  "year",
	}
	unit, ok := unitMap[info["FREQ"]]
	if !ok {
		return fallback
	}

	interval := 1
	if v := info["INTERVAL"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fallback
		}
		interval = n
	}

	var result strings.Builder
	if interval == 1 {
		result.WriteString(fmt.Sprintf("Every %s", unit))
	} else {
		result.WriteString(fmt.Sprintf("Every %d %ss", interval, unit))
	}

	if byDay := info["BYDAY"]; byDay != "" {
		// Labels follow the rule's BYDAY order; unknown codes render as "Custom"
		dayMap := map[string]string{
			"MO": "Monday", "TU": "Tuesday", "WE": "Wednesday", "TH": "Thursday",
			"FR": "Friday", "SA": "Saturday", "SU": "Sunday",
		}
		codes := strings.Split(byDay, ",")
		labels := make([]string, len(codes))
		for i, c := range codes {
			label, ok := dayMap[c]
			if !ok {
				label = "Custom"
			}
			labels[i] = label
		}
		result.WriteString(" on " + strings.Join(labels, ", "))
	}

	if count := info["COUNT"]; count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return fallback
		}
		if n > 0 {
			result.WriteString(fmt.Sprintf(" (%d times)", n))
		}
	}

	if until := info["UNTIL"]; until != "" {
		t, err := time.Parse("20060102T150405Z", until)
		if err != nil {
			return fallback
		}
		result.WriteString(fmt.Sprintf(" until %s", t.Format("2006-01-02")))
	}

	return result.String()
}

// IsRecurring checks if the rule string represents a recurring schedule
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}
