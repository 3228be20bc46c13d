package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"net/http"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// fetchGeometry returns the route line from origin to destination
// using the /v2/directions/{profile}/geojson endpoint.
func (o *ORSRouteProvider) fetchGeometry(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.fetchGeometry")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	body, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("execute directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return nil, fmt.Errorf("directions response has no route")
	}

	raw := decoded.Features[0].Geometry.Coordinates
	line := make([]domain.Coordinates, 0, len(raw))
	for i, c := range raw {
		if len(c) < 2 {
			return nil, fmt.Errorf("directions geometry point #%d: invalid coordinate format", i)
		}
		line = append(line, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}
	if len(line) < 2 {
		return nil, fmt.Errorf("directions geometry has %d points, want at least 2", len(line))
	}

	return line, nil
}

// samplePoints picks n points spread evenly along line, always including both ends.
func samplePoints(line []domain.Coordinates, n int) []domain.Coordinates {
	if n < 2 {
		n = 2
	}
	if len(line) <= n {
		out := make([]domain.Coordinates, len(line))
		copy(out, line)
		return out
	}

	out := make([]domain.Coordinates, 0, n)
	last := len(line) - 1
	for i := 0; i < n; i++ {
		out = append(out, line[i*last/(n-1)])
	}
	return out
}
