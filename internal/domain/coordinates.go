package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Midpoint returns the naive arithmetic midpoint between two coordinates.
// It is a visual approximation only and ignores the curvature of the earth.
func (c Coordinates) Midpoint(other Coordinates) Coordinates {
	return Coordinates{
		Lon: (c.Lon + other.Lon) / 2,
		Lat: (c.Lat + other.Lat) / 2,
	}
}
