// Package units provides pure numeric conversions and preference-driven
// formatting for weather metrics. Formatting never mutates the snapshot the
// values came from; every function takes plain values and a unit preference.
package units

import (
	"fmt"
	"math"

	"skycast/internal/types"
)

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// KmhToMph converts kilometres per hour to miles per hour.
func KmhToMph(kmh float64) float64 {
	return kmh * 0.621371
}

// MphToKmh converts miles per hour to kilometres per hour.
func MphToKmh(mph float64) float64 {
	return mph / 0.621371
}

// MbToInHg converts millibars to inches of mercury.
func MbToInHg(mb float64) float64 {
	return mb * 0.02953
}

// Temperature returns the raw temperature value matching the preference.
func Temperature(tempC, tempF float64, unit types.TemperatureUnit) float64 {
	if unit == types.UnitCelsius {
		return tempC
	}
	return tempF
}

// FormatTemperature renders a temperature rounded to the nearest integer
// with the unit symbol, e.g. "22°C" or "71°F".
func FormatTemperature(tempC, tempF float64, unit types.TemperatureUnit) string {
	symbol := "°F"
	if unit == types.UnitCelsius {
		symbol = "°C"
	}
	return fmt.Sprintf("%d%s", int(math.Round(Temperature(tempC, tempF, unit))), symbol)
}

// FormatWindSpeed renders a wind speed rounded to the nearest integer in
// km/h for metric preference, mph otherwise.
func FormatWindSpeed(windKph, windMph float64, unit types.TemperatureUnit) string {
	if unit == types.UnitCelsius {
		return fmt.Sprintf("%d km/h", int(math.Round(windKph)))
	}
	return fmt.Sprintf("%d mph", int(math.Round(windMph)))
}

// FormatPressure renders pressure as whole millibars for metric preference,
// inches of mercury to two decimals otherwise.
func FormatPressure(pressureMb, pressureIn float64, unit types.TemperatureUnit) string {
	if unit == types.UnitCelsius {
		return fmt.Sprintf("%d mb", int(math.Round(pressureMb)))
	}
	return fmt.Sprintf("%.2f inHg", pressureIn)
}

// FormatVisibility renders visibility to one decimal in km or miles.
func FormatVisibility(visKm, visMiles float64, unit types.TemperatureUnit) string {
	if unit == types.UnitCelsius {
		return fmt.Sprintf("%.1f km", visKm)
	}
	return fmt.Sprintf("%.1f mi", visMiles)
}

// FormatPrecipitation renders precipitation to one decimal in millimetres or
// two decimals in inches.
func FormatPrecipitation(precipMm, precipIn float64, unit types.TemperatureUnit) string {
	if unit == types.UnitCelsius {
		return fmt.Sprintf("%.1f mm", precipMm)
	}
	return fmt.Sprintf("%.2f in", precipIn)
}

// DewPointC approximates the dew point in Celsius from temperature and
// relative humidity: Tdp = T - ((100 - RH) / 5).
func DewPointC(tempC, humidity float64) float64 {
	return tempC - (100-humidity)/5
}

// FormatDewPoint renders the approximated dew point rounded to the nearest
// degree in the preferred unit, with a bare degree sign.
func FormatDewPoint(tempC, humidity float64, unit types.TemperatureUnit) string {
	dewC := DewPointC(tempC, humidity)
	if unit == types.UnitCelsius {
		return fmt.Sprintf("%d°", int(math.Round(dewC)))
	}
	return fmt.Sprintf("%d°", int(math.Round(CelsiusToFahrenheit(dewC))))
}
