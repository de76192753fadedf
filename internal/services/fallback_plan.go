package services

import (
	"math"
	"time"

	"driver-log-service/internal/domain"
)

// fallbackDistanceMiles is the assumed route length when no distance source
// is available at all, matching the backend's historical estimate behavior.
const fallbackDistanceMiles = 50.0

// FallbackPlan produces a naive local segmentation when the planning backend
// or distance provider is unreachable: each day is an even
// drive / lunch / drive / unload pattern starting at 08:00, with all other
// time off duty. It is an estimate, not an HOS-compliant schedule, and its
// results are flagged as such; it exists so the rendering pipeline never
// blocks on upstream availability and always receives a valid, non-empty
// day list.
func FallbackPlan(trip *domain.Trip, totalMiles float64) *PlanResult {
	if totalMiles <= 0 {
		totalMiles = fallbackDistanceMiles
	}

	// Eight driving hours per day at the average speed.
	milesPerDay := 8 * avgSpeedMph
	days := int(math.Ceil(totalMiles / milesPerDay))
	if days < 1 {
		days = 1
	}

	var (
		entries  []domain.LogEntry
		progress []domain.DailyProgress
	)

	covered := 0.0
	currentLocation := trip.StartLocation
	for dayIdx := 0; dayIdx < days; dayIdx++ {
		dayStart := domain.DayStart(trip.StartDate.AddDate(0, 0, dayIdx))
		at := func(h int) time.Time { return dayStart.Add(time.Duration(h) * time.Hour) }

		entries = append(entries,
			logEntry(trip, dayStart, domain.StatusOffDuty, at(0), at(8), "", ""),
			logEntry(trip, dayStart, domain.StatusDriving, at(8), at(12), "", ""),
			logEntry(trip, dayStart, domain.StatusOnDuty, at(12), at(13), "", "Lunch"),
			logEntry(trip, dayStart, domain.StatusDriving, at(13), at(17), "", ""),
			logEntry(trip, dayStart, domain.StatusOnDuty, at(17), at(18), "", "Unload"),
			logEntry(trip, dayStart, domain.StatusOffDuty, at(18), at(24), "", ""),
		)

		dailyMiles := milesPerDay
		if covered+dailyMiles > totalMiles {
			dailyMiles = totalMiles - covered
		}
		covered += dailyMiles

		endLocation := enRouteLabel(covered)
		if dayIdx == days-1 {
			endLocation = trip.DropoffLocation
		}
		progress = append(progress, domain.DailyProgress{
			Date:          dayStart,
			StartLocation: currentLocation,
			EndLocation:   endLocation,
			DailyMiles:    dailyMiles,
			CumulativeMi:  covered,
			DrivingHours:  dailyMiles / avgSpeedMph,
		})
		currentLocation = endLocation
	}

	return &PlanResult{
		Entries:  entries,
		Progress: progress,
		Summary: domain.TripSummary{
			DistanceMiles: totalMiles,
			DurationHours: totalMiles / avgSpeedMph,
			ArrivalAt:     entries[len(entries)-1].Start,
		},
		Estimated: true,
	}
}
