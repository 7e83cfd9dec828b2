package domain

import (
	"fmt"
	"time"
)

// TimeWindow bounds a provider query. Start is never after End.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.After(end) {
		return TimeWindow{}, fmt.Errorf("time window start %s is after end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// TodaySoFar returns [local midnight, now] in now's location.
func TodaySoFar(now time.Time) TimeWindow {
	y, m, d := now.Date()
	return TimeWindow{
		Start: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
