package pfe

import (
	"math"
	"strconv"
)

// Day-count divisors for named time points.
const (
	daysPerYear   = 365
	weeksPerYear  = 52
	monthsPerYear = 12
)

// profileTimePoints returns the named bucket schedule for a horizon. The
// schedules are fixed; horizons beyond a year use the long schedule
// truncated at the horizon.
func profileTimePoints(horizonYears float64) []string {
	switch {
	case horizonYears <= 1.0/12:
		return []string{"1d", "1w", "2w", "3w", "1m"}
	case horizonYears <= 3.0/12:
		return []string{"1d", "1w", "2w", "1m", "2m", "3m"}
	case horizonYears <= 1.0:
		return []string{"1d", "1w", "1m", "3m", "6m", "9m", "1y"}
	default:
		long := []string{"1d", "1m", "3m", "6m", "1y", "2y", "3y", "5y"}
		points := long[:0:0]
		for _, tp := range long {
			if TimePointYears(tp) <= horizonYears {
				points = append(points, tp)
			}
		}
		return points
	}
}

// TimePointYears converts a named time point such as "3m" or "2y" into
// years using fixed day-count divisors (d/365, w/52, m/12, y/1). Unknown
// units return 0; bucket names are engine-owned, never caller input.
func TimePointYears(timePoint string) float64 {
	if len(timePoint) < 2 {
		return 0
	}
	value, err := strconv.ParseFloat(timePoint[:len(timePoint)-1], 64)
	if err != nil {
		return 0
	}
	switch timePoint[len(timePoint)-1] {
	case 'd':
		return value / daysPerYear
	case 'w':
		return value / weeksPerYear
	case 'm':
		return value / monthsPerYear
	case 'y':
		return value
	}
	return 0
}

// GenerateProfile builds the exposure profile of a netting set over the
// horizon's bucket schedule. Expected exposure decays from replacement
// cost as RC*e^(-2t); potential future exposure rises and falls as
// PFE*sqrt(t/H)*4t*(1-t/H), reaching zero at the horizon.
func GenerateProfile(ns NettingSet, horizon TimeHorizon, pfe float64) []ProfilePoint {
	horizonYears := HorizonYears[horizon]
	replacementCost := ReplacementCost(ns)

	points := profileTimePoints(horizonYears)
	profile := make([]ProfilePoint, 0, len(points))
	for _, tp := range points {
		years := TimePointYears(tp)

		expected := replacementCost * math.Exp(-2*years)

		potential := 0.0
		if years < horizonYears {
			timeFactor := math.Sqrt(years / horizonYears)
			shape := 4 * years * (1 - years/horizonYears)
			potential = pfe * timeFactor * shape
		}

		profile = append(profile, ProfilePoint{
			TimePoint:               tp,
			ExpectedExposure:        expected,
			PotentialFutureExposure: potential,
		})
	}
	return profile
}
