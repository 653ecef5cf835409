package dto

type TripRequest struct {
	StartLocation string `json:"start_location" validate:"required"`
	EndLocation   string `json:"end_location" validate:"required"`
}

type TripStopResponse struct {
	Name                     string   `json:"name"`
	Locality                 string   `json:"locality"`
	Lat                      float64  `json:"lat"`
	Lng                      float64  `json:"lng"`
	DistanceFromOriginMeters *float64 `json:"distance_from_origin_meters,omitempty"`
	Matched                  bool     `json:"matched"`
	MatchedName              string   `json:"matched_name,omitempty"`
	PricePerUnit             *float64 `json:"price_per_unit,omitempty"`
}

type TripResponse struct {
	TotalCost        string             `json:"total_cost"`
	MapLink          string             `json:"map_link"`
	RouteSummary     string             `json:"route_summary,omitempty"`
	DistanceMeters   float64            `json:"distance_meters"`
	FuelNeeded       float64            `json:"fuel_needed"`
	PricePerUnit     float64            `json:"price_per_unit"`
	UsedDefaultPrice bool               `json:"used_default_price"`
	Stops            []TripStopResponse `json:"stops"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
