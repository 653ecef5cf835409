package domain

import (
	"errors"
	"fmt"
	"math"
)

const MetersPerMile = 1609.34

// Vehicle range and consumption parameters used by the range planner.
// Distances are meters; MetersPerUnit is how far the vehicle travels on one fuel unit.
type VehicleProfile struct {
	RangeMeters         float64
	MetersPerUnit       float64
	DefaultPricePerUnit float64
}

// Build a profile from miles, miles-per-unit (e.g. mpg) and a fallback price.
func NewVehicleProfile(rangeMiles, milesPerUnit, defaultPrice float64) (VehicleProfile, error) {
	p := VehicleProfile{
		RangeMeters:         rangeMiles * MetersPerMile,
		MetersPerUnit:       milesPerUnit * MetersPerMile,
		DefaultPricePerUnit: defaultPrice,
	}
	if err := p.Validate(); err != nil {
		return VehicleProfile{}, fmt.Errorf("new vehicle profile: %w", err)
	}
	return p, nil
}

// Profile matching the reference truck: 500 mi range, 10 mpg, $3.60 per gallon.
func DefaultVehicleProfile() VehicleProfile {
	return VehicleProfile{
		RangeMeters:         500 * MetersPerMile,
		MetersPerUnit:       10 * MetersPerMile,
		DefaultPricePerUnit: 3.6,
	}
}

func (p VehicleProfile) Validate() error {
	if !(p.RangeMeters > 0) || math.IsInf(p.RangeMeters, 0) {
		return errors.New("vehicle profile: range must be positive")
	}
	if !(p.MetersPerUnit > 0) || math.IsInf(p.MetersPerUnit, 0) {
		return errors.New("vehicle profile: fuel efficiency must be positive")
	}
	if !(p.DefaultPricePerUnit >= 0) || math.IsInf(p.DefaultPricePerUnit, 0) {
		return errors.New("vehicle profile: default price must be non-negative")
	}
	return nil
}
