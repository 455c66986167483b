package physics

import (
	"fmt"

	"github.com/san-kum/starmaker/internal/dynamo"
)

// MassUnit is a user-facing mass unit.
type MassUnit string

const (
	MassEarth MassUnit = "earth"
	// MassKg values are in units of 10²⁴ kg, matching the mass field of
	// system files written by the browser version.
	MassKg  MassUnit = "kg"
	MassSun MassUnit = "sun"
)

// VelocityUnit is a user-facing velocity unit.
type VelocityUnit string

const (
	VelocityKms     VelocityUnit = "kms"
	VelocityMs      VelocityUnit = "ms"
	VelocityOrbital VelocityUnit = "orbital"
)

func ParseMassUnit(s string) (MassUnit, error) {
	switch u := MassUnit(s); u {
	case MassEarth, MassKg, MassSun:
		return u, nil
	}
	return "", fmt.Errorf("%w: mass unit %q", dynamo.ErrUnknownUnit, s)
}

func ParseVelocityUnit(s string) (VelocityUnit, error) {
	switch u := VelocityUnit(s); u {
	case VelocityKms, VelocityMs, VelocityOrbital:
		return u, nil
	}
	return "", fmt.Errorf("%w: velocity unit %q", dynamo.ErrUnknownUnit, s)
}

// ConvertMass returns kilograms. Unknown units are treated as Earth masses.
func ConvertMass(value float64, unit MassUnit) float64 {
	switch unit {
	case MassKg:
		return value * 1e24
	case MassSun:
		return value * SolarMass
	default:
		return value * EarthMass
	}
}

// ConvertVelocity returns m/s. Unknown units are treated as km/s.
func ConvertVelocity(value float64, unit VelocityUnit) float64 {
	switch unit {
	case VelocityMs:
		return value
	case VelocityOrbital:
		return value * EarthOrbitalVelocity
	default:
		return value * 1000
	}
}

// EarthMasses converts kilograms to Earth masses.
func EarthMasses(kg float64) float64 {
	return kg / EarthMass
}
