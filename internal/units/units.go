// Package units provides shared constants, validation, and conversion for
// the display units the API can return speeds and paces in.
package units

import (
	"fmt"
	"math"
)

// Unit constants
const (
	MPS      = "mps"
	KMH      = "kmh"
	MPH      = "mph"
	MinPerKm = "minkm"
	MinPerMi = "minmi"
)

// ValidUnits contains all valid unit values.
var ValidUnits = []string{MPS, KMH, MPH, MinPerKm, MinPerMi}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for
// error messages.
func GetValidUnitsString() string {
	return "mps, kmh, mph, minkm, minmi"
}

// ConvertSpeed converts a speed from meters per second to the target units.
// The database stores speeds in m/s. Pace units (minutes per kilometre or
// mile) are inverse: a zero speed converts to zero pace rather than
// dividing by zero.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case KMH:
		return speedMPS * 3.6
	case MPH:
		return speedMPS * 2.2369362920544
	case MinPerKm:
		if speedMPS <= 0 {
			return 0
		}
		return 1000.0 / speedMPS / 60.0
	case MinPerMi:
		if speedMPS <= 0 {
			return 0
		}
		return 1609.344 / speedMPS / 60.0
	default:
		return speedMPS
	}
}

// FormatPace renders a pace value (minutes per unit distance) as m:ss.
func FormatPace(minutes float64) string {
	if minutes <= 0 {
		return "0:00"
	}
	whole := int(minutes)
	seconds := int(math.Round((minutes - float64(whole)) * 60.0))
	if seconds == 60 {
		whole++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", whole, seconds)
}
