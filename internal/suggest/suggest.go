// Package suggest generates the free-text daily insight and per-activity
// advice lines. Category selection is a deterministic ordered cascade; only
// the phrase picked inside a category is random, drawn from a small fixed
// pool through an injected source so tests can seed it.
package suggest

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"skycast/internal/types"
)

var (
	rainyPhrases = []string{
		"Don't forget your umbrella today!",
		"Rain is in the forecast. Perfect for indoor activities.",
		"Wet weather ahead. Drive safely and stay dry.",
		"Looks like a rainy day. Good time for a movie or book.",
	}
	sunnyPhrases = []string{
		"Soak up the sun! It's a beautiful day.",
		"Clear skies and sunshine. Enjoy the outdoors!",
		"Perfect weather for a walk in the park.",
		"Bright and sunny. Don't forget your sunglasses!",
	}
	hotPhrases = []string{
		"It's heating up! Stay hydrated and cool.",
		"High temperatures today. Avoid strenuous outdoor activities at noon.",
		"Summer vibes! Don't forget sunscreen.",
		"It's a scorcher. Keep cool and drink water.",
	}
	coldPhrases = []string{
		"Bundle up! It's crisp and cold outside.",
		"Chilly weather calling for warm layers and hot cocoa.",
		"Brisk conditions today. Stay warm!",
		"Winter feels. Make sure to wear a coat.",
	}
	windyPhrases = []string{
		"Hold onto your hat! It's quite windy.",
		"Breezy conditions today. Valid excuse for messy hair!",
		"Strong winds expected. Secure loose outdoor items.",
		"Windy day ahead. Use caution if cycling.",
	}
)

// Engine produces insight and advice text. The random source is injected so
// the category cascade can be asserted deterministically in tests.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an Engine using the given random source. A nil source
// falls back to a time-seeded one.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{rng: rng}
}

func (e *Engine) pick(pool []string) string {
	return pool[e.rng.IntN(len(pool))]
}

// DailyInsight returns a single sentence of advice chosen by the category
// cascade: rain (with a windy-rain special case), snow, high UV, hot, cold,
// windy, sunny, cloudy, then a templated fallback. The order is part of the
// contract; rain is always checked first and the fallback last.
func (e *Engine) DailyInsight(current *types.CurrentWeather, today *types.DailyForecast) string {
	condition := strings.ToLower(current.Condition.Text)
	temp := current.TempC
	wind := current.WindKph

	if strings.Contains(condition, "rain") || strings.Contains(condition, "drizzle") || strings.Contains(condition, "storm") {
		if wind > 30 {
			return "It's wet and windy. Best to stay indoors if possible."
		}
		return e.pick(rainyPhrases)
	}

	if strings.Contains(condition, "snow") || strings.Contains(condition, "blizzard") {
		return "Snow day! Drive carefully and enjoy the winter wonderland."
	}

	if current.UV > 7 {
		return "High UV levels today. Sunscreen is a must if you're going out."
	}

	if temp > 30 {
		return e.pick(hotPhrases)
	}
	if temp < 5 {
		return e.pick(coldPhrases)
	}

	if wind > 25 {
		return e.pick(windyPhrases)
	}

	if strings.Contains(condition, "sunny") || strings.Contains(condition, "clear") {
		return e.pick(sunnyPhrases)
	}

	if strings.Contains(condition, "cloud") || strings.Contains(condition, "overcast") {
		return "Cloudy skies today, but still a comfortable day to be out."
	}

	maxTemp := 0.0
	if today != nil {
		maxTemp = today.Day.MaxTempC
	}
	return fmt.Sprintf("Expect %s today with a high of %.0f°C. Have a great day!", condition, maxTemp)
}

// ActivityAdvice returns the advice line for an activity given its
// feasibility verdict. Both branches are flat lookups with a default
// fallback; only running conditions its feasible line on temperature.
func (e *Engine) ActivityAdvice(activity types.Activity, current *types.CurrentWeather, feasible bool) string {
	if !feasible {
		switch activity {
		case types.ActivityRunning:
			return "Maybe hit the treadmill instead?"
		case types.ActivityCycling:
			return "Roads might be slippery or visibility low."
		case types.ActivityDriving:
			return "Drive with extra caution today."
		case types.ActivityFishing:
			return "Fish might not be biting in this weather."
		case types.ActivityStargazing:
			return "Cloud cover will obscure the view."
		case types.ActivityBBQ:
			return "Not the best day for grilling outside."
		default:
			return "Conditions aren't great for this right now."
		}
	}

	switch activity {
	case types.ActivityRunning:
		if current != nil && current.TempC > 20 {
			return "Great run weather, bring water!"
		}
		return "Crisp air, perfect for a jog."
	case types.ActivityCycling:
		return "Roads are dry and wind is low."
	case types.ActivityDriving:
		return "Good visibility and dry roads."
	case types.ActivityFishing:
		return "Calm waters, good luck!"
	case types.ActivityStargazing:
		return "Clear skies ahead tonight."
	case types.ActivityBBQ:
		return "Fire up the grill, weather is perfect!"
	case types.ActivityHiking:
		return "Trails should be in good condition."
	case types.ActivityGardening:
		return "Nice weather to tend to your plants."
	default:
		return "Conditions are looking good!"
	}
}
