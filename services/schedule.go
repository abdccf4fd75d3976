package services

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rpupo63/agile-blog-backend/errs"
)

// LocalLayout is the wall-clock format authors schedule in.
const LocalLayout = "2006-01-02T15:04"

var offsetRe = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ParseOffsetMinutes parses a fixed UTC offset like "+08:00" into minutes.
// Anything that does not match the pattern falls back to the process-local
// UTC offset, not UTC zero; that is the documented recovery path for
// malformed or absent offsets.
func ParseOffsetMinutes(offset string) int {
	m := offsetRe.FindStringSubmatch(offset)
	if m == nil {
		_, secs := time.Now().Zone()
		return secs / 60
	}
	sign := 1
	if m[1] == "-" {
		sign = -1
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	return sign * (hours*60 + minutes)
}

// FormatOffset renders minutes east of UTC as "±HH:MM".
func FormatOffset(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// LocalOffsetString returns the process-local UTC offset as "±HH:MM".
func LocalOffsetString() string {
	_, secs := time.Now().Zone()
	return FormatOffset(secs / 60)
}

// ToAbsoluteInstant interprets a naive local timestamp as wall-clock time at
// the given fixed offset and returns the corresponding UTC instant.
func ToAbsoluteInstant(localDateTime, offset string) (time.Time, error) {
	t, err := time.Parse(LocalLayout, localDateTime)
	if err != nil {
		return time.Time{}, errs.NewValidationError("publishedAt", "expected a YYYY-MM-DDTHH:MM timestamp")
	}
	return t.Add(-time.Duration(ParseOffsetMinutes(offset)) * time.Minute), nil
}

// ToLocalDisplay renders an instant as wall-clock time at the given offset.
// Exact inverse of ToAbsoluteInstant for every valid offset, so re-opening
// the editor reconstructs the local time the author typed rather than
// converting through the viewer's timezone.
func ToLocalDisplay(instant time.Time, offset string) string {
	return instant.UTC().Add(time.Duration(ParseOffsetMinutes(offset)) * time.Minute).Format(LocalLayout)
}
