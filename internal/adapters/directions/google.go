package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"strconv"
	"strings"
)

const googleBaseURL = "https://maps.googleapis.com"

// GoogleGateway implements DirectionsGateway with the Google Maps Directions
// API. Intermediate addresses are sent as stopover waypoints so the response
// has one leg per address pair. Google only reports duration_in_traffic for
// requests without stopovers, so only single-leg requests with a departure
// time get traffic-aware durations; multi-leg requests get free-flow ones.
// The per-leg fallback tier is where traffic data comes back in.
//
// The gateway is safe for concurrent use.
type GoogleGateway struct {
	*transport
	apiKey string
}

func NewGoogleGateway(cfg Config) (*GoogleGateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}
	return &GoogleGateway{
		transport: newTransport(cfg, googleBaseURL),
		apiKey:    cfg.APIKey,
	}, nil
}

type googleValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type googleLeg struct {
	Distance          googleValue  `json:"distance"`
	Duration          googleValue  `json:"duration"`
	DurationInTraffic *googleValue `json:"duration_in_traffic"`
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []googleLeg `json:"legs"`
	} `json:"routes"`
}

func (g *GoogleGateway) Directions(
	ctx context.Context,
	req ports.DirectionsRequest,
) (_ []domain.Leg, err error) {
	defer obs.Time(ctx, g.logger, "google.Directions")(&err)

	if len(req.Addresses) < 2 {
		return nil, fmt.Errorf("google directions: need at least 2 addresses, got %d", len(req.Addresses))
	}
	addrs := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		n := normalize(a)
		if n == "" {
			return nil, errors.New("google directions: addresses must be non-empty")
		}
		addrs = append(addrs, n)
	}

	q := url.Values{}
	q.Set("origin", addrs[0])
	q.Set("destination", addrs[len(addrs)-1])
	if len(addrs) > 2 {
		q.Set("waypoints", strings.Join(addrs[1:len(addrs)-1], "|"))
	}
	q.Set("mode", "driving")
	if req.DepartAt != nil {
		q.Set("departure_time", strconv.FormatInt(req.DepartAt.Unix(), 10))
		q.Set("traffic_model", "best_guess")
	}
	q.Set("key", g.apiKey)
	endpoint := g.baseURL + "/maps/api/directions/json?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("google directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode google directions response: %w", err)
	}

	if decoded.Status != "OK" {
		return nil, &ports.GatewayError{Provider: "google", Status: decoded.Status, Message: decoded.ErrorMessage}
	}
	if len(decoded.Routes) == 0 {
		return nil, &ports.GatewayError{Provider: "google", Status: "ZERO_RESULTS"}
	}

	gl := decoded.Routes[0].Legs
	if len(gl) != len(addrs)-1 {
		return nil, fmt.Errorf("google directions: got %d legs for %d addresses", len(gl), len(addrs))
	}

	legs := make([]domain.Leg, 0, len(gl))
	for _, l := range gl {
		dur := l.Duration
		if l.DurationInTraffic != nil {
			dur = *l.DurationInTraffic
		}
		legs = append(legs, domain.Leg{
			DistanceMeters:  l.Distance.Value,
			DistanceText:    l.Distance.Text,
			DurationSeconds: dur.Value,
			DurationText:    dur.Text,
		})
	}

	return legs, nil
}
