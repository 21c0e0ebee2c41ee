package timezone

import (
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// DefaultZone is used when neither the participant nor the config names a zone
const DefaultZone = "America/Los_Angeles"

var aliases = map[string]string{
	"pst": "America/Los_Angeles",
	"pdt": "America/Los_Angeles",
	"est": "America/New_York",
	"edt": "America/New_York",
	"cst": "America/Chicago",
	"cdt": "America/Chicago",
	"mst": "America/Denver",
	"mdt": "America/Denver",
	"gmt": "Etc/UTC",
	"utc": "Etc/UTC",
}

// Normalize maps user-entered timezone text onto a canonical IANA name.
// Unknown or empty values resolve to defaultZone.
func Normalize(value, defaultZone string) string {
	if defaultZone == "" {
		defaultZone = DefaultZone
	}

	v := strings.TrimSpace(value)
	if v == "" {
		return defaultZone
	}

	if canonical, ok := aliases[strings.ToLower(v)]; ok {
		return canonical
	}

	if loadable(v) {
		return v
	}

	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	if compact != v && loadable(compact) {
		return compact
	}

	return defaultZone
}

func loadable(name string) bool {
	// time.LoadLocation treats "" and "Local" specially; neither is a stored zone
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// Location loads a zone that has already been normalized, falling back to UTC
func Location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalDay returns the calendar day key for now in the given zone
func LocalDay(now time.Time, zone string) string {
	return now.In(Location(zone)).Format(model.DateLayout)
}

// PreviousDay returns the day key before day, or empty if day is malformed
func PreviousDay(day string) string {
	d, err := time.Parse(model.DateLayout, day)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(model.DateLayout)
}
