// Package agenda computes when scheduled classes next take place.
//
// Only entries whose day names a weekday and whose time reads as a clock
// time take part; everything else in the schedule is free text and is skipped.
package agenda

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"classbook/internal/schedule"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// "9:00", "09:30", "9am", "9:15 pm", "7 p.m."
var reClock = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(?:m\.?)?$`)

// Occurrence is the next time an entry takes place.
type Occurrence struct {
	Entry schedule.Entry
	At    time.Time
}

// Slot is a machine-readable weekly slot.
type Slot struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Spec returns the slot as a five-field cron expression.
func (s Slot) Spec() string {
	return fmt.Sprintf("%d %d * * %d", s.Minute, s.Hour, int(s.Weekday))
}

// ParseSlot reads day and time. ok is false when either is free text.
func ParseSlot(day, at string) (Slot, bool) {
	wd, ok := parseWeekday(day)
	if !ok {
		return Slot{}, false
	}
	h, m, ok := parseClock(at)
	if !ok {
		return Slot{}, false
	}
	return Slot{Weekday: wd, Hour: h, Minute: m}, true
}

// Upcoming returns the next occurrence after from of every entry with a
// readable slot, earliest first. limit <= 0 returns all of them.
func Upcoming(entries []schedule.Entry, from time.Time, limit int) []Occurrence {
	out := make([]Occurrence, 0, len(entries))
	for _, e := range entries {
		slot, ok := ParseSlot(e.Day, e.Time)
		if !ok {
			continue
		}
		sched, err := parser.Parse(slot.Spec())
		if err != nil {
			continue
		}
		out = append(out, Occurrence{Entry: e, At: sched.Next(from)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Entry.String() < out[j].Entry.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func parseWeekday(day string) (time.Weekday, bool) {
	d := strings.ToLower(strings.TrimSpace(day))
	if len(d) < 3 {
		return 0, false
	}
	for i, name := range schedule.Weekdays {
		if strings.HasPrefix(strings.ToLower(name), d) {
			// schedule.Weekdays starts on Monday.
			return time.Weekday((i + 1) % 7), true
		}
	}
	return 0, false
}

func parseClock(at string) (int, int, bool) {
	m := reClock.FindStringSubmatch(strings.ToLower(strings.TrimSpace(at)))
	if m == nil {
		return 0, 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, 0, false
	}
	switch m[3] {
	case "":
		if m[2] == "" || hour > 23 {
			// A bare number is too ambiguous to schedule.
			return 0, 0, false
		}
	case "a", "p":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		hour %= 12
		if m[3] == "p" {
			hour += 12
		}
	}
	return hour, minute, true
}
