package mapkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/bwise1/placemark/internal/geo"
	"github.com/bwise1/placemark/internal/model"
	"github.com/bwise1/placemark/util"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// polyline6Tolerance is half of the 1e-6 encoding resolution.
const polyline6Tolerance = 5e-7

// Valhalla error codes meaning the locations could not be connected.
var valhallaNoRouteCodes = map[int]bool{442: true, 443: true, 171: true}

// ValhallaClient requests driving routes from a Valhalla /route endpoint,
// such as the one Stadia Maps hosts.
type ValhallaClient struct {
	BaseURL string
	APIKey  string // optional, sent as api_key
	Client  *http.Client
}

func NewValhallaClient(baseURL, apiKey string, httpClient *http.Client) *ValhallaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ValhallaClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  httpClient,
	}
}

type valhallaLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type valhallaRequest struct {
	Locations  []valhallaLocation `json:"locations"`
	Costing    string             `json:"costing"`
	Alternates int                `json:"alternates,omitempty"`
	Units      string             `json:"units"`
}

type valhallaTrip struct {
	Legs []struct {
		Shape string `json:"shape"`
	} `json:"legs"`
	Summary struct {
		Length float64 `json:"length"` // kilometers
		Time   float64 `json:"time"`
	} `json:"summary"`
}

type valhallaResponse struct {
	Trip       *valhallaTrip `json:"trip"`
	Alternates []struct {
		Trip valhallaTrip `json:"trip"`
	} `json:"alternates"`
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error"`
}

// DrivingRoutes returns the primary trip followed by its alternates, at most
// count in total. Unconnectable locations yield an empty slice.
func (vc *ValhallaClient) DrivingRoutes(ctx context.Context, start, end model.Point, count int) ([]Route, error) {
	body := valhallaRequest{
		Locations: []valhallaLocation{
			{Lat: start.Latitude, Lon: start.Longitude},
			{Lat: end.Latitude, Lon: end.Longitude},
		},
		Costing: "auto",
		Units:   "kilometers",
	}
	if count > 1 {
		body.Alternates = count - 1
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal route request")
	}

	endpoint := vc.BaseURL + "/route/v1"
	if vc.APIKey != "" {
		endpoint += "?api_key=" + vc.APIKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "create route request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := vc.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute route request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read route response")
	}

	var result valhallaResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("valhalla returned status %d: %s", resp.StatusCode, string(raw))
		}
		return nil, errors.Wrap(err, "decode route response")
	}

	switch {
	case valhallaNoRouteCodes[result.ErrorCode]:
		return []Route{}, nil
	case resp.StatusCode != http.StatusOK || result.Trip == nil:
		return nil, fmt.Errorf("valhalla error (status %d, code %d): %s", resp.StatusCode, result.ErrorCode, result.Error)
	}

	trips := []valhallaTrip{*result.Trip}
	for _, alt := range result.Alternates {
		trips = append(trips, alt.Trip)
	}

	routes := make([]Route, 0, len(trips))
	for _, trip := range trips {
		line, err := tripGeometry(trip)
		if err != nil {
			return nil, err
		}
		routes = append(routes, Route{
			Geometry:  line,
			DistanceM: trip.Summary.Length * 1000,
			DurationS: trip.Summary.Time,
		})
		if count > 0 && len(routes) == count {
			break
		}
	}
	return routes, nil
}

// tripGeometry joins the leg shapes, dropping the point each leg shares
// with the previous one.
func tripGeometry(trip valhallaTrip) (orb.LineString, error) {
	var line orb.LineString
	for _, leg := range trip.Legs {
		coords, err := util.DecodePolyline6(leg.Shape)
		if err != nil {
			return nil, errors.Wrap(err, "decode leg shape")
		}
		part := geo.LineStringFromLatLon(coords)
		if len(line) > 0 && len(part) > 0 && samePosition(line[len(line)-1], part[0]) {
			part = part[1:]
		}
		line = append(line, part...)
	}
	return line, nil
}

// samePosition compares points at polyline6 resolution. Legs are decoded
// independently, so a shared point can differ in the last float bits.
func samePosition(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < polyline6Tolerance && math.Abs(a[1]-b[1]) < polyline6Tolerance
}
