package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/ports"
)

// Planning constants. These mirror the simplified hours-of-service
// assumptions used by the backend planner: a 70/8 cycle gives 8.75 working
// hours per day, days start at 08:00 after ten hours off, and driving is
// budgeted at a 55 mph average.
const (
	avgSpeedMph       = 55.0
	dailyWorkHours    = 8.75
	dutyStartHour     = 8
	fuelStopHours     = 0.25
	metersPerMile     = 1609.34
	maxPlanningDays   = 60
	defaultFuelMiles  = 1000
	defaultServiceMin = 60
)

type milestoneKind string

const (
	milestonePickup  milestoneKind = "pickup"
	milestoneFuel    milestoneKind = "fuel"
	milestoneDropoff milestoneKind = "dropoff"
)

type milestone struct {
	kind     milestoneKind
	distance float64 // miles from trip start
	hours    float64 // stop duration
	location string
}

// PlanResult is the planner's output: per-day duty log entries, daily
// progress rows for the sheet headers, and the trip summary.
type PlanResult struct {
	Entries   []domain.LogEntry
	Progress  []domain.DailyProgress
	Summary   domain.TripSummary
	Estimated bool
}

// PlanTrip segments a trip into daily duty-log entries.
//
// Distances come from the distance provider; when the provider is
// unavailable the planner degrades to FallbackPlan so the rest of the
// pipeline always receives a valid, normalizable day list. Fallback results
// are flagged Estimated.
func PlanTrip(ctx context.Context, trip *domain.Trip, provider ports.DistanceProvider) (*PlanResult, error) {
	if trip == nil {
		return nil, errors.New("plan trip: trip must be non-nil")
	}
	if trip.StartLocation == "" || trip.DropoffLocation == "" {
		return nil, errors.New("plan trip: start and dropoff locations must be non-empty")
	}

	startToPickup, pickupToDropoff, err := legDistances(ctx, trip, provider)
	if err != nil {
		log.Printf("plan trip: distance provider unavailable, using fallback segmentation: %v", err)
		res := FallbackPlan(trip, fallbackDistanceMiles)
		return res, nil
	}

	totalMiles := startToPickup + pickupToDropoff
	if totalMiles <= 0 {
		return nil, fmt.Errorf("plan trip: computed route distance is zero for %q -> %q",
			trip.StartLocation, trip.DropoffLocation)
	}

	return planMilestones(trip, startToPickup, totalMiles), nil
}

// legDistances resolves the route legs in miles via the distance provider.
func legDistances(ctx context.Context, trip *domain.Trip, provider ports.DistanceProvider) (float64, float64, error) {
	if provider == nil {
		return 0, 0, errors.New("no distance provider configured")
	}

	if trip.PickupLocation == "" {
		direct, err := provider.GetDistance(ctx, trip.StartLocation, trip.DropoffLocation)
		if err != nil {
			return 0, 0, fmt.Errorf("get distance %q -> %q: %w", trip.StartLocation, trip.DropoffLocation, err)
		}
		return 0, float64(direct.DistanceMeters) / metersPerMile, nil
	}

	leg1, err := provider.GetDistance(ctx, trip.StartLocation, trip.PickupLocation)
	if err != nil {
		return 0, 0, fmt.Errorf("get distance %q -> %q: %w", trip.StartLocation, trip.PickupLocation, err)
	}
	leg2, err := provider.GetDistance(ctx, trip.PickupLocation, trip.DropoffLocation)
	if err != nil {
		return 0, 0, fmt.Errorf("get distance %q -> %q: %w", trip.PickupLocation, trip.DropoffLocation, err)
	}
	return float64(leg1.DistanceMeters) / metersPerMile, float64(leg2.DistanceMeters) / metersPerMile, nil
}

// buildMilestones lays out the stops along the route: pickup service, a fuel
// stop at every fuel interval, and dropoff service, sorted by distance.
func buildMilestones(trip *domain.Trip, startToPickup, totalMiles float64) []milestone {
	serviceHours := float64(trip.ServiceMinutes) / 60
	if trip.ServiceMinutes <= 0 {
		serviceHours = float64(defaultServiceMin) / 60
	}
	fuelInterval := float64(trip.FuelIntervalMi)
	if fuelInterval <= 0 {
		fuelInterval = defaultFuelMiles
	}

	ms := make([]milestone, 0, 4)
	if startToPickup > 0 {
		ms = append(ms, milestone{kind: milestonePickup, distance: startToPickup, hours: serviceHours, location: trip.PickupLocation})
	}
	for d := fuelInterval; d < totalMiles; d += fuelInterval {
		ms = append(ms, milestone{kind: milestoneFuel, distance: d, hours: fuelStopHours})
	}
	ms = append(ms, milestone{kind: milestoneDropoff, distance: totalMiles, hours: serviceHours, location: trip.DropoffLocation})

	sort.SliceStable(ms, func(i, j int) bool { return ms[i].distance < ms[j].distance })
	return ms
}

// planMilestones walks the milestone list day by day within the daily work
// budget, emitting driving and on-duty entries plus OFF padding at both ends
// of every day.
func planMilestones(trip *domain.Trip, startToPickup, totalMiles float64) *PlanResult {
	milestones := buildMilestones(trip, startToPickup, totalMiles)

	var (
		entries  []domain.LogEntry
		progress []domain.DailyProgress
		fuelUsed int
	)

	covered := 0.0
	msIdx := 0
	currentLocation := trip.StartLocation
	done := false
	var arrival time.Time

	for dayIdx := 0; !done && covered < totalMiles-1e-6 && dayIdx < maxPlanningDays; dayIdx++ {
		dayStart := domain.DayStart(trip.StartDate.AddDate(0, 0, dayIdx))
		t := dayStart.Add(dutyStartHour * time.Hour)
		remaining := dailyWorkHours
		dailyMiles := 0.0
		dayEndLocation := ""

		entries = append(entries, logEntry(trip, dayStart, domain.StatusOffDuty, dayStart, t, "", ""))

		for remaining > 1e-9 && msIdx < len(milestones) {
			m := milestones[msIdx]
			distTo := m.distance - covered
			if distTo < 0 {
				distTo = 0
			}
			driveHours := distTo / avgSpeedMph

			// The dropoff is completed whenever the drive alone fits the
			// budget; its service stop may slightly overrun the day.
			canFinish := driveHours+m.hours <= remaining ||
				(m.kind == milestoneDropoff && driveHours <= remaining)

			if !canFinish {
				// Cannot finish this milestone today: drive out the budget.
				dist := math.Min(remaining*avgSpeedMph, distTo)
				if dist > 1e-9 {
					end := t.Add(hoursDur(dist / avgSpeedMph))
					entries = append(entries, logEntry(trip, dayStart, domain.StatusDriving, t, end, "", ""))
					t = end
					covered += dist
					dailyMiles += dist
				}
				remaining = 0
				break
			}

			if driveHours > 0 {
				end := t.Add(hoursDur(driveHours))
				entries = append(entries, logEntry(trip, dayStart, domain.StatusDriving, t, end, "", ""))
				t = end
				covered += distTo
				dailyMiles += distTo
				remaining -= driveHours
			}

			stopEnd := t.Add(hoursDur(m.hours))
			entries = append(entries, logEntry(trip, dayStart, domain.StatusOnDuty, t, stopEnd, m.location, stopRemark(m, fuelUsed)))
			if m.kind == milestoneFuel {
				fuelUsed++
			}
			t = stopEnd
			remaining -= m.hours
			msIdx++

			if m.kind == milestoneDropoff {
				done = true
				covered = totalMiles
				dayEndLocation = trip.DropoffLocation
				arrival = stopEnd
				break
			}
			if m.kind == milestonePickup {
				currentLocation = trip.PickupLocation
			}
		}

		if t.Before(dayStart.Add(24 * time.Hour)) {
			entries = append(entries, logEntry(trip, dayStart, domain.StatusOffDuty, t, dayStart.Add(24*time.Hour), "", ""))
		}

		if dayEndLocation == "" {
			dayEndLocation = enRouteLabel(covered)
		}
		progress = append(progress, domain.DailyProgress{
			Date:          dayStart,
			StartLocation: currentLocation,
			EndLocation:   dayEndLocation,
			DailyMiles:    dailyMiles,
			CumulativeMi:  covered,
			DrivingHours:  dailyMiles / avgSpeedMph,
		})
		currentLocation = dayEndLocation
	}

	if arrival.IsZero() && len(entries) > 0 {
		arrival = entries[len(entries)-1].End
	}

	return &PlanResult{
		Entries:  entries,
		Progress: progress,
		Summary: domain.TripSummary{
			DistanceMiles: totalMiles,
			DurationHours: totalMiles / avgSpeedMph,
			FuelStops:     fuelUsed,
			ArrivalAt:     arrival,
		},
	}
}

func logEntry(trip *domain.Trip, day time.Time, status domain.DutyStatus, start, end time.Time, location, remarks string) domain.LogEntry {
	return domain.LogEntry{
		TripID:        trip.TripID,
		SheetDate:     day,
		Status:        status,
		Start:         start,
		End:           end,
		StartLocation: location,
		EndLocation:   location,
		Remarks:       remarks,
	}
}

func stopRemark(m milestone, fuelUsed int) string {
	switch m.kind {
	case milestonePickup:
		return "Pickup service"
	case milestoneDropoff:
		return "Dropoff service"
	case milestoneFuel:
		return fmt.Sprintf("Fuel stop %d", fuelUsed+1)
	}
	return ""
}

// enRouteLabel names an intermediate overnight location by its distance from
// the trip start. Reverse-geocoded place names are an upstream concern; the
// planner only guarantees a stable, readable label.
func enRouteLabel(miles float64) string {
	return fmt.Sprintf("En route, mile %.0f", miles)
}

func hoursDur(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
