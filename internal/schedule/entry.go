package schedule

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	nameSep = " - "
	timeSep = " at "
)

// Weekdays are the day labels offered for selection. Entry.Day is free text
// and is not required to be one of them.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Entry is one scheduled class.
type Entry struct {
	ClassName string `json:"class_name"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

// String renders the entry as "{ClassName} - {Day} at {Time}".
func (e Entry) String() string {
	return e.ClassName + nameSep + e.Day + timeSep + e.Time
}

// ParseEntry splits a rendered entry back into its fields.
//
// The class name ends at the first " - " and the time starts after the last
// " at ". A class name containing " - " or a time containing " at " cannot be
// recovered exactly from the rendered form.
func ParseEntry(s string) (Entry, error) {
	name, rest, ok := strings.Cut(s, nameSep)
	if !ok {
		return Entry{}, errors.New("parse entry " + quote(s) + ": missing \" - \" separator")
	}
	i := strings.LastIndex(rest, timeSep)
	if i < 0 {
		return Entry{}, errors.New("parse entry " + quote(s) + ": missing \" at \" separator")
	}
	return Entry{ClassName: name, Day: rest[:i], Time: rest[i+len(timeSep):]}, nil
}

func quote(s string) string {
	if len(s) > 60 {
		cut := 57
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return "\"" + s + "\""
}
