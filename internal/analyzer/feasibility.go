package analyzer

import (
	"strings"

	"skycast/internal/types"
)

// Feasibility scores a single activity against the reading.
//
// Activity-agnostic hard blockers run first and dominate every
// activity-specific tree: storm/thunder conditions or wind above 40 kph, and
// temperature above 38°C or below -5°C, are infeasible for everything.
// Past the blockers each activity applies its own decision tree with three
// outcomes: infeasible (red), feasible-with-caution (amber), or ideal
// (green). Unknown activities get a neutral gray verdict.
//
// User preferences are deliberately not consulted here; whether an activity
// card is shown at all is a presentation concern.
func Feasibility(current *types.CurrentWeather, activity types.Activity) types.ActivityFeasibility {
	if current == nil {
		return neutralVerdict()
	}

	temp := current.TempC
	wind := current.WindKph
	condition := strings.ToLower(current.Condition.Text)

	if strings.Contains(condition, "storm") || strings.Contains(condition, "thunder") || wind > 40 {
		return types.ActivityFeasibility{
			Feasible: false,
			Reason:   "Severe weather conditions",
			Color:    types.ColorSevere,
		}
	}
	if temp > 38 || temp < -5 {
		return types.ActivityFeasibility{
			Feasible: false,
			Reason:   "Extreme temperature",
			Color:    types.ColorSevere,
		}
	}

	switch activity {
	case types.ActivityHiking:
		if strings.Contains(condition, "rain") && !strings.Contains(condition, "light") {
			return infeasible("Heavy rain - trails may be slippery", types.ColorCaution)
		}
		if temp >= 15 && temp <= 28 && wind < 25 {
			return ideal("Ideal hiking conditions")
		}
		return caution("Acceptable conditions")

	case types.ActivityRunning:
		if temp > 32 {
			return infeasible("Too hot for safe running", types.ColorSevere)
		}
		if current.UV >= 8 && temp > 25 {
			return infeasible("High UV and heat - run early/late", types.ColorCaution)
		}
		if temp >= 10 && temp <= 25 && !strings.Contains(condition, "rain") {
			return ideal("Perfect running weather")
		}
		return caution("Acceptable for running")

	case types.ActivityCycling:
		if wind > 30 {
			return infeasible("Too windy for safe cycling", types.ColorSevere)
		}
		if strings.Contains(condition, "rain") {
			return infeasible("Wet roads - reduced traction", types.ColorCaution)
		}
		if temp >= 12 && temp <= 28 && wind < 20 {
			return ideal("Great cycling conditions")
		}
		return caution("Acceptable for cycling")

	case types.ActivityDriving:
		if current.VisKm < 1 || strings.Contains(condition, "fog") || strings.Contains(condition, "blizzard") {
			return infeasible("Poor visibility", types.ColorSevere)
		}
		if strings.Contains(condition, "ice") || strings.Contains(condition, "freezing") {
			return infeasible("Icy roads likely", types.ColorSevere)
		}
		if strings.Contains(condition, "rain") {
			return caution("Drive with caution")
		}
		return ideal("Good driving conditions")

	case types.ActivityFishing:
		if wind > 30 || strings.Contains(condition, "storm") {
			return infeasible("Unsafe conditions", types.ColorSevere)
		}
		if strings.Contains(condition, "rain") || strings.Contains(condition, "overcast") {
			return ideal("Excellent fishing weather")
		}
		return ideal("Good conditions")

	case types.ActivityGardening:
		if strings.Contains(condition, "rain") || wind > 40 {
			return infeasible("Not suitable today", types.ColorSevere)
		}
		if temp > 32 {
			return infeasible("Too hot for gardening", types.ColorCaution)
		}
		return ideal("Great day for gardening")

	case types.ActivityStargazing:
		if strings.Contains(condition, "cloud") || strings.Contains(condition, "overcast") || strings.Contains(condition, "rain") {
			return infeasible("Cloudy/Obstructed view", types.ColorSevere)
		}
		return ideal("Clear skies!")

	case types.ActivityBBQ:
		if strings.Contains(condition, "rain") || wind > 25 {
			return infeasible("Rain or wind expected", types.ColorSevere)
		}
		if temp < 10 {
			return infeasible("Too cold for BBQ", types.ColorCaution)
		}
		return ideal("Perfect BBQ weather")

	default:
		return neutralVerdict()
	}
}

func infeasible(reason, color string) types.ActivityFeasibility {
	return types.ActivityFeasibility{Feasible: false, Reason: reason, Color: color}
}

func caution(reason string) types.ActivityFeasibility {
	return types.ActivityFeasibility{Feasible: true, Reason: reason, Color: types.ColorCaution}
}

func ideal(reason string) types.ActivityFeasibility {
	return types.ActivityFeasibility{Feasible: true, Reason: reason, Color: types.ColorIdeal}
}

func neutralVerdict() types.ActivityFeasibility {
	return types.ActivityFeasibility{Feasible: true, Reason: "Check conditions", Color: types.ColorNeutral}
}
