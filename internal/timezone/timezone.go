// Package timezone resolves a small fixed set of zone names to UTC offsets.
// It is a deliberate approximation, not an IANA database: offsets come from
// a static table, and daylight saving is modeled only for the south-eastern
// Australian zones through one hard-coded October-to-April window.
package timezone

import "time"

// Standard-time offsets in minutes east of UTC.
var offsetTable = map[string]int{
	"UTC":                 0,
	"Australia/Sydney":    600,
	"Australia/Melbourne": 600,
	"Australia/Canberra":  600,
	"Australia/Hobart":    600,
	"Australia/Brisbane":  600,
	"Australia/Adelaide":  570,
	"Australia/Darwin":    570,
	"Australia/Perth":     480,
	"Pacific/Auckland":    720,
	"Asia/Singapore":      480,
	"Asia/Tokyo":          540,
	"Europe/London":       0,
	"America/New_York":    -300,
	"America/Los_Angeles": -480,
}

// Zones that observe the hard-coded DST window. Brisbane, Darwin and Perth
// keep standard time year round.
var dstZones = map[string]bool{
	"Australia/Sydney":    true,
	"Australia/Melbourne": true,
	"Australia/Canberra":  true,
	"Australia/Hobart":    true,
	"Australia/Adelaide":  true,
}

// OffsetMinutes returns the UTC offset for a zone at the given instant.
// Unknown zones resolve to 0 (UTC); this never fails.
func OffsetMinutes(zone string, at time.Time) int {
	base, ok := offsetTable[zone]
	if !ok {
		return 0
	}
	if dstZones[zone] && inDST(at) {
		base += 60
	}
	return base
}

// inDST reports whether the instant falls in the southern-hemisphere DST
// window: first Sunday of October through first Sunday of April, both taken
// from the instant's own calendar year. The same-year wrap-around comparison
// is an intentional simplification and is not calendar-exact near boundary
// years.
func inDST(t time.Time) bool {
	year := t.Year()
	dstStart := firstSunday(year, time.October)
	dstEnd := firstSunday(year, time.April)
	return !t.Before(dstStart) || t.Before(dstEnd)
}

// firstSunday returns midnight UTC of the first Sunday in the given month.
func firstSunday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// ToUTC reinterprets a zone-local instant as UTC.
func ToUTC(local time.Time, zone string) time.Time {
	offset := OffsetMinutes(zone, local)
	return local.Add(-time.Duration(offset) * time.Minute)
}

// FromUTC shifts a UTC instant into zone-local time.
func FromUTC(utc time.Time, zone string) time.Time {
	offset := OffsetMinutes(zone, utc)
	return utc.Add(time.Duration(offset) * time.Minute)
}

// In returns the instant in a fixed-offset location named after the zone,
// for display formatting.
func In(t time.Time, zone string) time.Time {
	offset := OffsetMinutes(zone, t)
	return t.In(time.FixedZone(zone, offset*60))
}
