package calendar

import "time"

// Window is an inclusive range of days. A zero From means unbounded in the past.
type Window struct {
	From Date
	To   Date
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	return !d.After(w.To)
}

// Day returns a window covering only d.
func Day(d Date) Window {
	return Window{From: d, To: d}
}

// Week returns the Monday-to-Sunday week containing d.
func Week(d Date) Window {
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDays(-offset)
	return Window{From: start, To: start.AddDays(6)}
}

// Month returns the calendar month containing d.
func Month(d Date) Window {
	start := Date{Year: d.Year, Month: d.Month, Day: 1}
	end := DateOf(time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC))
	return Window{From: start, To: end}
}

// Before returns the window of every day strictly before d.
func Before(d Date) Window {
	return Window{To: d.AddDays(-1)}
}
