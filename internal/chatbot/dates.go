package chatbot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// meetingPastCutoff bounds how far in the past a normalized meeting date
// may land before creation is rejected.
const meetingPastCutoff = 5 * 365 * 24 * time.Hour

// calendarAnchorRe detects an explicit calendar reference: a 4-digit year,
// a slash/dash date, or a month/weekday name token (abbreviated or full).
// Input without one is a bare time of day, subject to the next-day roll.
var calendarAnchorRe = regexp.MustCompile(`(?i)\b\d{4}\b|\d{1,2}[-/]\d{1,2}|\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sep(t|tember)?|oct(ober)?|nov(ember)?|dec(ember)?|mon(day)?|tue(s|sday)?|wed(nesday)?|thu(rs|rsday)?|fri(day)?|sat(urday)?|sun(day)?)\b`)

var timeOfDayRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// NormalizeMeetingDate parses a meeting date string in the given location
// and applies the scheduling heuristic: when the input carries no explicit
// calendar anchor and the naive parse lands in the past, advance one day
// (so "at 3pm" said after 3pm means tomorrow). The result is rejected if
// it still falls before a reasonable past cutoff.
func NormalizeMeetingDate(input string, now time.Time) (time.Time, error) {
	parsed, err := parseDateTime(input, now)
	if err != nil {
		return time.Time{}, NewValidationFailed(fmt.Sprintf("The date '%s' doesn't look right. Please provide it like 'YYYY-MM-DD HH:MM' or 'next Tuesday at 3pm'.", input))
	}

	if !calendarAnchorRe.MatchString(input) && parsed.Before(now) {
		parsed = parsed.AddDate(0, 0, 1)
	}

	if parsed.Before(now.Add(-meetingPastCutoff)) {
		return time.Time{}, NewValidationFailed("The meeting date seems too far in the past.")
	}
	return parsed, nil
}

// parseDateTime handles the relative day/time phrases the model extracts
// ("tomorrow 2pm", "next tuesday at 15:00", "3pm") and defers absolute
// formats to dateparse.
func parseDateTime(input string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	s = strings.ReplaceAll(s, " at ", " ")

	day, rest, dayFound := relativeDay(s, now)
	if !dayFound {
		day = startOfDay(now)
		rest = s
	}

	if hour, minute, ok := timeOfDay(rest); ok && (dayFound || isBareTime(rest)) {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), nil
	}
	if dayFound && strings.TrimSpace(rest) == "" {
		// Day without a time defaults to 09:00; a meeting at midnight is
		// never what the user meant.
		return time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, now.Location()), nil
	}

	return dateparse.ParseIn(input, now.Location())
}

// relativeDay consumes a leading relative-day phrase and returns the
// anchored day plus the remaining text.
func relativeDay(s string, now time.Time) (time.Time, string, bool) {
	for _, prefix := range []string{"tomorrow", "today", "tonight"} {
		if s == prefix || strings.HasPrefix(s, prefix+" ") {
			day := startOfDay(now)
			if prefix == "tomorrow" {
				day = day.AddDate(0, 0, 1)
			}
			return day, strings.TrimSpace(strings.TrimPrefix(s, prefix)), true
		}
	}
	if wd, rest, ok := weekdayPhrase(s); ok {
		return nextWeekday(now, wd), rest, true
	}
	return time.Time{}, s, false
}

// timeOfDay extracts an hour/minute from a bare time fragment.
func timeOfDay(s string) (hour, minute int, ok bool) {
	m := timeOfDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		// No am/pm marker and no minutes reads as ambiguous ("at 3");
		// only accept 24h-style values as-is.
		if m[2] == "" && hour < 8 {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// isBareTime reports whether s is only a time expression.
func isBareTime(s string) bool {
	return timeOfDayRe.FindString(strings.TrimSpace(s)) == strings.TrimSpace(s)
}
