package domain

// Kind of a plotted route point.
type RoutePointType string

const (
	RoutePointOrigin      RoutePointType = "origin"
	RoutePointMidpoint    RoutePointType = "mid"
	RoutePointDestination RoutePointType = "dest"
)

// A named point drawn on the route preview.
type RoutePoint struct {
	Name   string
	Coords Coordinates
	Type   RoutePointType
}

// Represents a route between two labelled places and the jurisdictions it traverses.
// Jurisdiction order is kept for display; feasibility treats each entry independently.
type Route struct {
	Origin        string
	Destination   string
	Jurisdictions []string
	Points        []RoutePoint
	Mode          string
}
