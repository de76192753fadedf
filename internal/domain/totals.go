package domain

// DutyTotals holds per-status duty hours for one log sheet day.
type DutyTotals struct {
	OffDuty float64
	Sleeper float64
	Driving float64
	OnDuty  float64
}

// Sum returns the total hours across all four statuses.
func (d DutyTotals) Sum() float64 {
	return d.OffDuty + d.Sleeper + d.Driving + d.OnDuty
}

// For returns the total for one status.
func (d DutyTotals) For(s DutyStatus) float64 {
	switch s {
	case StatusOffDuty:
		return d.OffDuty
	case StatusSleeper:
		return d.Sleeper
	case StatusDriving:
		return d.Driving
	case StatusOnDuty:
		return d.OnDuty
	}
	return 0
}
