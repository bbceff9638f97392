package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeRange is a half-open-ish date filter produced from a timeframe
// phrase. Nil From/To means unbounded on that side.
type TimeRange struct {
	From        *time.Time
	To          *time.Time
	Ascending   bool
	Description string
}

// ParseTimeframe turns a user-supplied timeframe phrase into a TimeRange.
// Literal tokens are handled first; anything else goes through generic
// date parsing and is bucketed into a year/month/week/day range depending
// on which unit keyword the phrase contains. Unparseable input returns a
// ValidationFailed error so the handler can ask for a valid timeframe.
func ParseTimeframe(phrase string, now time.Time) (TimeRange, error) {
	original := phrase
	phrase = strings.ToLower(strings.TrimSpace(phrase))

	switch phrase {
	case "today":
		from := startOfDay(now)
		to := from.AddDate(0, 0, 1)
		return TimeRange{From: &from, To: &to, Description: fmt.Sprintf(" for %s", now.Format("Jan 2, 2006"))}, nil
	case "this week", "this_week":
		from := startOfWeek(now)
		to := from.AddDate(0, 0, 7)
		return TimeRange{From: &from, To: &to, Description: " for this week"}, nil
	case "upcoming":
		from := now
		return TimeRange{From: &from, Ascending: true, Description: " (upcoming)"}, nil
	case "past", "recent", "previous":
		to := now
		return TimeRange{To: &to, Description: " (past)"}, nil
	}

	anchor, err := parseLooseDate(phrase, now)
	if err != nil {
		return TimeRange{}, NewValidationFailed(fmt.Sprintf("Sorry, I couldn't understand the timeframe '%s'. Please try 'today', 'this week', 'upcoming', 'past', or a specific date.", original))
	}

	switch {
	case strings.Contains(phrase, "year"):
		from := time.Date(anchor.Year(), 1, 1, 0, 0, 0, 0, anchor.Location())
		to := from.AddDate(1, 0, 0)
		return TimeRange{From: &from, To: &to, Description: fmt.Sprintf(" for the year %d", anchor.Year())}, nil
	case strings.Contains(phrase, "month"):
		from := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		to := from.AddDate(0, 1, 0)
		return TimeRange{From: &from, To: &to, Description: fmt.Sprintf(" for %s", anchor.Format("January 2006"))}, nil
	case strings.Contains(phrase, "week"):
		from := startOfWeek(anchor)
		to := from.AddDate(0, 0, 7)
		return TimeRange{From: &from, To: &to, Description: fmt.Sprintf(" for the week starting %s", from.Format("Jan 2"))}, nil
	default:
		from := startOfDay(anchor)
		to := from.AddDate(0, 0, 1)
		return TimeRange{From: &from, To: &to, Description: fmt.Sprintf(" for %s", anchor.Format("Jan 2, 2006"))}, nil
	}
}

// parseLooseDate parses relative phrases (tomorrow, next tuesday, last
// month) locally and defers everything else to dateparse.
func parseLooseDate(phrase string, now time.Time) (time.Time, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	loc := now.Location()

	switch phrase {
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	case "next week":
		return startOfWeek(now).AddDate(0, 0, 7), nil
	case "last week":
		return startOfWeek(now).AddDate(0, 0, -7), nil
	case "this month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	case "next month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0), nil
	case "last month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0), nil
	case "this year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc), nil
	case "next year":
		return time.Date(now.Year()+1, 1, 1, 0, 0, 0, 0, loc), nil
	case "last year":
		return time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, loc), nil
	}

	if wd, rest, ok := weekdayPhrase(phrase); ok && rest == "" {
		return nextWeekday(now, wd), nil
	}

	return dateparse.ParseIn(phrase, loc)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// weekdayPhrase matches "[next|this] <weekday> [rest...]" and returns the
// weekday plus whatever followed it.
func weekdayPhrase(phrase string) (time.Weekday, string, bool) {
	fields := strings.Fields(phrase)
	if len(fields) == 0 {
		return 0, "", false
	}
	i := 0
	if fields[0] == "next" || fields[0] == "this" {
		if len(fields) == 1 {
			return 0, "", false
		}
		i = 1
	}
	wd, ok := weekdays[fields[i]]
	if !ok {
		return 0, "", false
	}
	return wd, strings.Join(fields[i+1:], " "), true
}

// nextWeekday returns the next occurrence of wd strictly after today.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	d := startOfDay(now)
	for {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == wd {
			return d
		}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
