package domain

import "fmt"

const kgToLb = 2.2046226218

// Weight units.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// ValidateUnit rejects anything other than "kg" and "lb".
func ValidateUnit(unit string) error {
	if unit != UnitKg && unit != UnitLb {
		return fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", ErrValidation)
	}
	return nil
}

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * kgToLb
	}
	if from == UnitLb && to == UnitKg {
		return v / kgToLb
	}
	return v
}
