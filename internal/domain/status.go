package domain

import "fmt"

// DutyStatus is one of the four regulatory duty categories tracked on an
// hours-of-service log sheet.
type DutyStatus string

const (
	StatusOffDuty DutyStatus = "OFF"
	StatusSleeper DutyStatus = "SB"
	StatusDriving DutyStatus = "D"
	StatusOnDuty  DutyStatus = "ON"
)

// StatusOrder is the fixed top-to-bottom row order of the log grid.
var StatusOrder = [4]DutyStatus{StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty}

// ParseDutyStatus maps an input status code to a DutyStatus.
// The backend historically emits "DR" for driving; it is folded into "D"
// here, at the ingestion boundary.
func ParseDutyStatus(code string) (DutyStatus, error) {
	switch code {
	case "OFF":
		return StatusOffDuty, nil
	case "SB":
		return StatusSleeper, nil
	case "D", "DR":
		return StatusDriving, nil
	case "ON":
		return StatusOnDuty, nil
	}
	return "", fmt.Errorf("parse duty status: unknown code %q", code)
}

// Label returns the human-readable name used on the printed sheet.
func (s DutyStatus) Label() string {
	switch s {
	case StatusOffDuty:
		return "Off Duty"
	case StatusSleeper:
		return "Sleeper Berth"
	case StatusDriving:
		return "Driving"
	case StatusOnDuty:
		return "On Duty (not driving)"
	}
	return string(s)
}
