package form

import (
	"strings"
	"time"
)

// Ampersands are left alone so that sanitizing twice is a no-op.
var markupEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Sanitize trims s and escapes the characters that could open markup.
func Sanitize(s string) string {
	return markupEscaper.Replace(strings.TrimSpace(s))
}

// IST is India Standard Time. India observes no daylight saving, so a
// fixed zone avoids depending on the host's tz database.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// timestampLayout matches the en-IN locale rendering, e.g.
// "19/10/2026, 3:04:05 pm".
const timestampLayout = "2/1/2006, 3:04:05 pm"

// FormatTimestamp renders t in loc the way submission timestamps are logged.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = IST
	}
	return t.In(loc).Format(timestampLayout)
}
