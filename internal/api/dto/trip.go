package dto

import "time"

type CreateTripRequest struct {
	StartLocation   string  `json:"start_location"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	CycleHours      float64 `json:"cycle_hours"`
	PropertyCarry   bool    `json:"property_carry"`
	FuelIntervalMi  int     `json:"fuel_interval_mi"`
	ServiceMinutes  int     `json:"service_minutes"`
	StartDate       string  `json:"start_date"`
}

type TripSummaryResponse struct {
	DistanceMiles float64   `json:"distance_miles"`
	DurationHours float64   `json:"duration_hours"`
	FuelStops     int       `json:"fuel_stops"`
	ArrivalAt     time.Time `json:"arrival_at"`
}

type TripResponse struct {
	TripID          string               `json:"trip_id"`
	StartLocation   string               `json:"start_location"`
	PickupLocation  string               `json:"pickup_location"`
	DropoffLocation string               `json:"dropoff_location"`
	StartDate       string               `json:"start_date"`
	Summary         *TripSummaryResponse `json:"summary,omitempty"`
	Estimated       bool                 `json:"estimated"`
	CreatedAt       time.Time            `json:"created_at"`
}

type DutySegmentResponse struct {
	Status string    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type DutyTotalsResponse struct {
	OffDuty float64 `json:"off_duty"`
	Sleeper float64 `json:"sleeper"`
	Driving float64 `json:"driving"`
	OnDuty  float64 `json:"on_duty"`
}

type LogsheetResponse struct {
	Date          string                `json:"date"`
	StartLocation string                `json:"start_location"`
	EndLocation   string                `json:"end_location"`
	DailyMiles    float64               `json:"daily_miles"`
	CumulativeMi  float64               `json:"cumulative_miles"`
	Totals        DutyTotalsResponse    `json:"totals"`
	Segments      []DutySegmentResponse `json:"segments"`
}

type ListLogsheetResponse struct {
	TripID    string             `json:"trip_id"`
	Estimated bool               `json:"estimated"`
	Sheets    []LogsheetResponse `json:"sheets"`
}
