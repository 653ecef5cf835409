package domain

// A point of interest near a route step that may sell fuel.
// Candidates are not yet confirmed against the price reference table.
type CandidateStop struct {
	ID       string
	Name     string
	Locality string
	Position GeoPoint
	// Distance along the trip from the origin, nil when unknown.
	DistanceFromOriginMeters *float64
}

// A candidate stop after price matching.
// MatchedPrice is nil when no reference entry scored above the similarity threshold.
type MatchedStop struct {
	CandidateStop
	MatchedName  string
	MatchedPrice *float64
	Score        int
}

func (s MatchedStop) Matched() bool { return s.MatchedPrice != nil }
