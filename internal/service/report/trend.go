package report

import (
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const monthLabelLayout = "2006-01"

// MonthWindow is one calendar month, from the first day at 00:00:00 to the
// last day at 23:59:59.
type MonthWindow struct {
	Label string
	Start time.Time
	End   time.Time
}

// MonthWindows returns a window for every calendar month intersecting
// [start, end], in order. Boundary months are not clipped to the range.
func MonthWindows(start, end time.Time) ([]MonthWindow, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	loc := start.Location()
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)

	windows := make([]MonthWindow, 0, monthsBetween(cur, last)+1)
	for !cur.After(last) {
		next := cur.AddDate(0, 1, 0)
		windows = append(windows, MonthWindow{
			Label: cur.Format(monthLabelLayout),
			Start: cur,
			End:   model.EndOfDay(next.AddDate(0, 0, -1)),
		})
		cur = next
	}
	return windows, nil
}

// buildMonthlyTrend runs fn once per month window and collects the points in
// month order. The first error aborts the loop.
func buildMonthlyTrend[T any](start, end time.Time, fn func(w MonthWindow) (T, error)) ([]T, error) {
	windows, err := MonthWindows(start, end)
	if err != nil {
		return nil, err
	}
	points := make([]T, 0, len(windows))
	for _, w := range windows {
		p, err := fn(w)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// addMonths adds n calendar months, clamping to the last day of the target
// month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// fullYearsBetween is the number of whole years from birth to now.
func fullYearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
