package domain

// Represents the fueling plan computed for one route.
// A FuelPlan is immutable planning data: the stops retained by the range filter,
// the price applied to the whole trip, and the resulting cost.
type FuelPlan struct {
	Route            RouteLeg
	SelectedStops    []MatchedStop
	FuelNeeded       float64
	PricePerUnit     float64
	UsedDefaultPrice bool
	TotalCost        float64
}

// Number of selected stops that matched a reference price.
func (p *FuelPlan) MatchedCount() int {
	n := 0
	for _, s := range p.SelectedStops {
		if s.Matched() {
			n++
		}
	}
	return n
}
