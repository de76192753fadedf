package domain

import "time"

// DailySheet is the render input for one log sheet page: a normalized
// timeline plus the header values drawn around the grid. Built fresh per
// export, never persisted.
type DailySheet struct {
	Date          time.Time
	StartLocation string
	EndLocation   string
	DailyMiles    float64
	CumulativeMi  float64
	Timeline      Timeline
	Totals        DutyTotals
	Meta          TripMeta
}
