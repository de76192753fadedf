package domain

import "time"

// DutySegment is one duty-status interval, [Start, End) in UTC.
// Raw caller-supplied segments may be unsorted and may contain gaps or
// overlaps; Normalize turns them into a valid Timeline.
type DutySegment struct {
	Status DutyStatus
	Start  time.Time
	End    time.Time
}

// Hours returns the segment length in fractional hours.
func (s DutySegment) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}
