package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ErrEmptyInput is returned when a due date phrase is blank.
var ErrEmptyInput = errors.New("date input is empty")

var slashLayouts = []string{"2006/1/2", "2006/01/02", "2006.1.2"}

var (
	jaWeekdayPhrase = regexp.MustCompile(`^(?:(今週|来週|再来週)の?)?(月|火|水|木|金|土|日)曜日?$`)
	enWeekdayPhrase = regexp.MustCompile(`(?i)^(this|next)\s+(mon|tue|wed|thu|fri|sat|sun)[a-z]*$`)
)

// Offsets from Monday.
var (
	jaWeekdays = map[string]int{"月": 0, "火": 1, "水": 2, "木": 3, "金": 4, "土": 5, "日": 6}
	enWeekdays = map[string]int{"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6}
	jaWeeks    = map[string]int{"今週": 0, "来週": 1, "再来週": 2}
)

// ParseInput parses a user supplied due date. Accepts ISO dates, slash
// separated dates and natural phrases such as "tomorrow", "next friday" or
// "来週金曜", interpreted relative to now.
func ParseInput(input string, now time.Time) (Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Date{}, ErrEmptyInput
	}

	if d, err := ParseDate(input); err == nil {
		return d, nil
	}
	for _, layout := range slashLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return DateOf(t), nil
		}
	}

	if d, ok := parseWeekdayPhrase(input, DateOf(now)); ok {
		return d, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return Date{}, fmt.Errorf("could not parse date %q: %w", input, err)
	}
	return DateOf(result.Time), nil
}

// parseWeekdayPhrase resolves "<week><weekday>" phrases that dateparser
// does not understand. Weeks run Monday to Sunday: "来週金曜" and
// "next friday" are the Friday of next week, "今週金曜" and "this friday"
// the Friday of this week. A bare weekday ("金曜") is its next occurrence,
// today included.
func parseWeekdayPhrase(input string, today Date) (Date, bool) {
	if m := jaWeekdayPhrase.FindStringSubmatch(input); m != nil {
		day := jaWeekdays[m[2]]
		if m[1] == "" {
			return nextWeekday(today, day), true
		}
		return weekday(today, jaWeeks[m[1]], day), true
	}
	if m := enWeekdayPhrase.FindStringSubmatch(input); m != nil {
		day, ok := enWeekdays[strings.ToLower(m[2])]
		if !ok {
			return Date{}, false
		}
		weeks := 0
		if strings.EqualFold(m[1], "next") {
			weeks = 1
		}
		return weekday(today, weeks, day), true
	}
	return Date{}, false
}

func weekday(today Date, weeks, day int) Date {
	return Week(today.AddDays(7 * weeks)).From.AddDays(day)
}

func nextWeekday(today Date, day int) Date {
	current := (int(today.Weekday()) + 6) % 7
	return today.AddDays((day - current + 7) % 7)
}
