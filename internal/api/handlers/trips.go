package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"fuel-trip-service/internal/api/dto"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"fuel-trip-service/internal/ports"
	"fuel-trip-service/internal/services"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type TripHandler struct {
	Planner  *services.TripPlanner
	Renderer ports.MapRenderer
	// Absolute base for map links; derived from the request when empty.
	PublicBaseURL string
}

// Calculate plans the cheapest fueling strategy for a trip and renders its map.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	req.StartLocation = strings.TrimSpace(req.StartLocation)
	req.EndLocation = strings.TrimSpace(req.EndLocation)
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, services.ErrMissingAddress.Error(), validationDetails(err)...)
		return
	}

	plan, err := h.Planner.Plan(r.Context(), req.StartLocation, req.EndLocation)
	if err != nil {
		h.respondPlanError(w, r, err)
		return
	}

	ref, err := h.Renderer.Render(r.Context(), plan)
	if err != nil {
		log.Printf("req_id=%s render map failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toTripResponse(plan, h.absoluteURL(r, ref)))
}

// Map planning errors to status codes. Provider messages are passed through.
func (h *TripHandler) respondPlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrMissingAddress):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoRoutes):
		writeError(w, r, http.StatusNotFound, "No routes found")
	case services.IsExternal(err):
		var ext *services.ExternalError
		errors.As(err, &ext)
		writeError(w, r, http.StatusInternalServerError, ext.Error())
	default:
		log.Printf("req_id=%s plan trip failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *TripHandler) absoluteURL(r *http.Request, ref string) string {
	if base := strings.TrimRight(h.PublicBaseURL, "/"); base != "" {
		return base + ref
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, ref)
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, jsonFieldName(fe.Field())+" is required")
		default:
			out = append(out, jsonFieldName(fe.Field())+" failed "+fe.Tag()+" validation")
		}
	}
	return out
}

func jsonFieldName(field string) string {
	switch field {
	case "StartLocation":
		return "start_location"
	case "EndLocation":
		return "end_location"
	default:
		return field
	}
}

func toTripResponse(plan *domain.FuelPlan, mapLink string) dto.TripResponse {
	res := dto.TripResponse{
		TotalCost:        fmt.Sprintf("$%.2f", plan.TotalCost),
		MapLink:          mapLink,
		RouteSummary:     plan.Route.Summary,
		DistanceMeters:   plan.Route.TotalDistanceMeters,
		FuelNeeded:       plan.FuelNeeded,
		PricePerUnit:     plan.PricePerUnit,
		UsedDefaultPrice: plan.UsedDefaultPrice,
		Stops:            make([]dto.TripStopResponse, 0, len(plan.SelectedStops)),
	}

	for _, s := range plan.SelectedStops {
		res.Stops = append(res.Stops, dto.TripStopResponse{
			Name:                     s.Name,
			Locality:                 s.Locality,
			Lat:                      s.Position.Lat,
			Lng:                      s.Position.Lng,
			DistanceFromOriginMeters: s.DistanceFromOriginMeters,
			Matched:                  s.Matched(),
			MatchedName:              s.MatchedName,
			PricePerUnit:             s.MatchedPrice,
		})
	}

	return res
}
