package analytics

import "time"

const dayKeyLayout = "2006-01-02"

// Window is the inclusive time range a summary covers. Day keys and
// time-of-day periods are computed in Location; nil means UTC.
type Window struct {
	From     time.Time
	To       time.Time
	Location *time.Location
}

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// DayRange returns the local calendar days touched by [from, to], oldest
// first. It is empty when from is after to.
func DayRange(from, to time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	if from.After(to) {
		return []string{}
	}

	first := startOfDay(from.In(loc))
	last := startOfDay(to.In(loc))

	days := make([]string, 0, int(last.Sub(first).Hours()/24)+1)
	// AddDate keeps wall-clock midnight across DST shifts where Add(24h) would not.
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayKeyLayout))
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}
