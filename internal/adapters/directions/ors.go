package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const orsBaseURL = "https://api.openrouteservice.org"

// ORSGateway implements DirectionsGateway using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Deduplication of concurrent geocode lookups for the same address
//   - External API calls with retry/backoff
//
// OpenRouteService has no traffic model, so DepartAt is ignored and every
// duration is free-flow. The gateway is safe for concurrent use.
type ORSGateway struct {
	*transport
	profile      string
	geocodeCache ports.GeocodeCache
	geocodes     singleflight.Group
}

func NewORSGateway(cfg Config, geocodeCache ports.GeocodeCache) (*ORSGateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	t := newTransport(cfg, orsBaseURL)
	apiKey := cfg.APIKey
	t.authorize = func(r *http.Request) { r.Header.Set("Authorization", apiKey) }

	return &ORSGateway{
		transport:    t,
		profile:      "driving-car",
		geocodeCache: geocodeCache,
	}, nil
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type orsDirectionsResponse struct {
	Routes []struct {
		Segments []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"segments"`
	} `json:"routes"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (o *ORSGateway) Directions(
	ctx context.Context,
	req ports.DirectionsRequest,
) (_ []domain.Leg, err error) {
	defer obs.Time(ctx, o.logger, "ors.Directions")(&err)

	if len(req.Addresses) < 2 {
		return nil, fmt.Errorf("ors directions: need at least 2 addresses, got %d", len(req.Addresses))
	}

	addrs := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		n := normalize(a)
		if n == "" {
			return nil, errors.New("ors directions: addresses must be non-empty")
		}
		addrs = append(addrs, n)
	}

	coords, err := o.resolve(ctx, addrs)
	if err != nil {
		return nil, fmt.Errorf("ors directions: resolve coordinates: %w", err)
	}

	body := orsDirectionsRequest{Units: "m", Coordinates: make([][]float64, 0, len(addrs))}
	for _, a := range addrs {
		body.Coordinates = append(body.Coordinates, coords[a].CoordsToList())
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("ors directions request: %w", err)
	}
	defer resp.Body.Close()

	var dr orsDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if dr.Error != nil {
		return nil, &ports.GatewayError{Provider: "ors", Status: fmt.Sprint(dr.Error.Code), Message: dr.Error.Message}
	}
	if len(dr.Routes) == 0 {
		return nil, &ports.GatewayError{Provider: "ors", Status: "NO_ROUTE"}
	}

	segs := dr.Routes[0].Segments
	if len(segs) != len(addrs)-1 {
		return nil, fmt.Errorf("ors directions: got %d segments for %d addresses", len(segs), len(addrs))
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	legs := make([]domain.Leg, 0, len(segs))
	for _, s := range segs {
		meters := int(math.Round(s.Distance))
		seconds := int(math.Round(s.Duration))
		legs = append(legs, domain.Leg{
			DistanceMeters:  meters,
			DistanceText:    formatDistance(meters),
			DurationSeconds: seconds,
			DurationText:    formatDuration(seconds),
		})
	}
	return legs, nil
}

// resolve returns coordinates for every address, consulting the persistent
// cache before geocoding misses.
func (o *ORSGateway) resolve(ctx context.Context, addrs []string) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		var err error
		hits, err = o.geocodeCache.GetMany(ctx, addrs)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	coords := make(map[string]domain.Coordinates, len(addrs))
	fresh := make(map[string]domain.Coordinates)
	for _, a := range addrs {
		if c, ok := hits[a]; ok {
			coords[a] = c
			continue
		}
		if c, ok := fresh[a]; ok {
			coords[a] = c
			continue
		}

		v, err, _ := o.geocodes.Do(a, func() (any, error) {
			return o.geocode(ctx, a)
		})
		if err != nil {
			return nil, fmt.Errorf("retrieving coordinates for %q: %w", a, err)
		}
		c := v.(domain.Coordinates)
		fresh[a] = c
		coords[a] = c
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			o.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}

	return coords, nil
}
