package notify

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"skycast/internal/types"
)

// MessageKind selects the template family for a generated weather message.
type MessageKind string

const (
	MessageDaily    MessageKind = "daily"
	MessageTomorrow MessageKind = "tomorrow"
	MessageWeekly   MessageKind = "weekly"
	MessageAlert    MessageKind = "alert"
)

var greetings = []string{
	"Good morning!",
	"Heads up!",
	"Weather update:",
	"Forecast ready:",
}

// Static copy for the recurring schedules. Registered at resync time,
// before any reading exists; a successful background check rewrites the
// daily and tomorrow bodies with weather-aware copy.
var (
	dailyNotification = Notification{
		Title: "☀️ Daily Forecast",
		Body:  "Check out your weather forecast for the day!",
	}
	tomorrowNotification = Notification{
		Title: "🌙 Tomorrow's Outlook",
		Body:  "See what tomorrow brings. Plan your day ahead!",
	}
	weeklyNotification = Notification{
		Title: "📅 Weekly Weather Ahead",
		Body:  "Your 7-day weather outlook is ready. Check it out!",
	}
)

// CopyBuilder renders weather message text. The random source only picks
// the greeting; template selection is deterministic.
type CopyBuilder struct {
	rng *rand.Rand
}

// NewCopyBuilder creates a CopyBuilder. A nil source falls back to a seeded
// one.
func NewCopyBuilder(rng *rand.Rand) *CopyBuilder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CopyBuilder{rng: rng}
}

// WeatherMessage renders the conversational message for a reading. Daily
// messages branch on the condition text; tomorrow and weekly use fixed
// templates; anything else falls back to a terse condition/temperature pair.
func (b *CopyBuilder) WeatherMessage(current *types.CurrentWeather, kind MessageKind) string {
	temp := int(math.Round(current.TempC))
	condition := strings.ToLower(current.Condition.Text)
	greeting := greetings[b.rng.IntN(len(greetings))]

	switch kind {
	case MessageDaily:
		switch {
		case strings.Contains(condition, "rain"):
			return fmt.Sprintf("%s It's going to be rainy today with a high of %d°C. Don't forget your umbrella! ☔", greeting, temp)
		case strings.Contains(condition, "clear") || strings.Contains(condition, "sunny"):
			return fmt.Sprintf("%s It's a beautiful sunny day! Expect a high of %d°C. Perfect for outdoor activities. ☀️", greeting, temp)
		case strings.Contains(condition, "cloud"):
			return fmt.Sprintf("%s Expect cloudy skies today with a high of %d°C. A comfortable day overall. ☁️", greeting, temp)
		default:
			return fmt.Sprintf("%s Today's forecast: %s with a high of %d°C. Have a great day!", greeting, current.Condition.Text, temp)
		}
	case MessageTomorrow:
		return fmt.Sprintf("Planning for tomorrow? Expect %s with a temperature around %d°C.", current.Condition.Text, temp)
	case MessageWeekly:
		return "Your weekly outlook is here! Check the app for the full 7-day forecast."
	default:
		return fmt.Sprintf("%s: %d°C", current.Condition.Text, temp)
	}
}

// severeAlertNotification renders the immediate notification for a severe
// alert at a location.
func severeAlertNotification(locationName string, alert *types.WeatherAlert) Notification {
	return Notification{
		Title: "⚠️ Severe Weather Alert",
		Body:  fmt.Sprintf("%s: %s", locationName, alert.Message),
		Data:  map[string]any{"location": locationName, "alert": string(alert.Level)},
	}
}

// precipitationAlertNotification renders the immediate notification for a
// rain or snow caution.
func precipitationAlertNotification(locationName string, current *types.CurrentWeather) Notification {
	condition := strings.ToLower(current.Condition.Text)
	return Notification{
		Title: fmt.Sprintf("🌨️ %s Alert", current.Condition.Text),
		Body:  fmt.Sprintf("It's %s in %s. Stay dry!", condition, locationName),
		Data:  map[string]any{"type": "precipitation"},
	}
}
