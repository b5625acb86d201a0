package search

import (
	"regexp"
	"strconv"

	"github.com/rpggio/karte/internal/calendar"
)

// Hint is a relative-date phrase resolved to a due-date window.
type Hint struct {
	Phrase string
	Window calendar.Window
	// OpenOnly drops closed projects, for phrases like 期限切れ.
	OpenOnly bool
}

// Matches reports whether a due date satisfies the hint.
func (h Hint) Matches(due *calendar.Date, closed bool) bool {
	if due == nil || (h.OpenOnly && closed) {
		return false
	}
	return h.Window.Contains(*due)
}

// maxRelativeDays bounds "N日以内" so absurd numbers stay keywords.
const maxRelativeDays = 3650

type phraseRule func(today calendar.Date) Hint

// phrases maps folded tokens to windows relative to today.
var phrases = map[string]phraseRule{
	"今日":       day(0),
	"today":    day(0),
	"明日":       day(1),
	"tomorrow": day(1),
	"今週":       week(0),
	"来週":       week(1),
	"再来週":      week(2),
	"今月":       month(0),
	"来月":       month(1),
	"期限切れ":     overdue,
	"overdue":  overdue,
}

var relativeDays = regexp.MustCompile(`^([0-9]+)日(以内|後)$`)

// ParseHint resolves a folded token into a Hint. It reports false for
// ordinary keywords and for phrases that cannot be evaluated.
func ParseHint(token string, today calendar.Date) (Hint, bool) {
	if rule, ok := phrases[token]; ok {
		h := rule(today)
		h.Phrase = token
		return h, true
	}
	m := relativeDays.FindStringSubmatch(token)
	if m == nil {
		return Hint{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 || n > maxRelativeDays {
		return Hint{}, false
	}
	if m[2] == "後" {
		return Hint{Phrase: token, Window: calendar.Day(today.AddDays(n))}, true
	}
	return Hint{Phrase: token, Window: calendar.Window{From: today, To: today.AddDays(n)}}, true
}

func day(offset int) phraseRule {
	return func(today calendar.Date) Hint {
		return Hint{Window: calendar.Day(today.AddDays(offset))}
	}
}

func week(offset int) phraseRule {
	return func(today calendar.Date) Hint {
		return Hint{Window: calendar.Week(today.AddDays(7 * offset))}
	}
}

func month(offset int) phraseRule {
	return func(today calendar.Date) Hint {
		first := calendar.Date{Year: today.Year, Month: today.Month, Day: 1}
		return Hint{Window: calendar.Month(first.AddDays(32 * offset))}
	}
}

func overdue(today calendar.Date) Hint {
	return Hint{Window: calendar.Before(today), OpenOnly: true}
}
