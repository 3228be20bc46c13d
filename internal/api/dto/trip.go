package dto

import "dispatch-compliance-service/internal/domain"

type VehicleRequest struct {
	HeightFt       float64 `json:"height_ft"`
	GrossWeightLbs int     `json:"gross_weight_lbs"`
	Hazmat         bool    `json:"hazmat"`
}

type PlanTripRequest struct {
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	Vehicle        VehicleRequest `json:"vehicle"`
	AvoidTolls     bool           `json:"avoid_tolls"`
	PreferHighways bool           `json:"prefer_highways"`
}

type RoutePointResponse struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Type string  `json:"type"`
}

type RouteResponse struct {
	Origin        string               `json:"origin"`
	Destination   string               `json:"destination"`
	Jurisdictions []string             `json:"jurisdictions"`
	Points        []RoutePointResponse `json:"points"`
	Mode          string               `json:"mode"`
}

type FeasibilityResponse struct {
	Status     string   `json:"status"`
	Issues     []string `json:"issues"`
	Advisories []string `json:"advisories"`
	DataNote   string   `json:"data_note"`
}

type TripPlanResponse struct {
	Route          RouteResponse       `json:"route"`
	Feasibility    FeasibilityResponse `json:"feasibility"`
	AdvancedChecks bool                `json:"advanced_checks"`
}

func FromRoute(r domain.Route) RouteResponse {
	points := make([]RoutePointResponse, 0, len(r.Points))
	for _, p := range r.Points {
		points = append(points, RoutePointResponse{
			Name: p.Name,
			Lon:  p.Coords.Lon,
			Lat:  p.Coords.Lat,
			Type: string(p.Type),
		})
	}

	jurisdictions := r.Jurisdictions
	if jurisdictions == nil {
		jurisdictions = []string{}
	}

	return RouteResponse{
		Origin:        r.Origin,
		Destination:   r.Destination,
		Jurisdictions: jurisdictions,
		Points:        points,
		Mode:          r.Mode,
	}
}

func FromFeasibility(r domain.FeasibilityResult) FeasibilityResponse {
	return FeasibilityResponse{
		Status:     string(r.Status),
		Issues:     nonNil(r.Issues),
		Advisories: nonNil(r.Advisories),
		DataNote:   r.DataNote,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
