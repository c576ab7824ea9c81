package mapkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bwise1/placemark/internal/geo"
	"github.com/bwise1/placemark/internal/model"
	"github.com/bwise1/placemark/util"
	"github.com/pkg/errors"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

// MapboxClient requests driving routes from the Mapbox Directions API.
type MapboxClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewMapboxClient(baseURL, apiKey string, httpClient *http.Client) *MapboxClient {
	if baseURL == "" {
		baseURL = defaultMapboxBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MapboxClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  httpClient,
	}
}

// DirectionsResponse represents the top-level response from Mapbox Directions API
type DirectionsResponse struct {
	Routes  []DirectionsRoute `json:"routes"`
	Code    string            `json:"code"` // "Ok", "NoRoute", "NoSegment", ...
	Message string            `json:"message,omitempty"`
}

type DirectionsRoute struct {
	Geometry string  `json:"geometry"` // polyline6
	Duration float64 `json:"duration"` // in seconds
	Distance float64 `json:"distance"` // in meters
}

// FormatCoordinate renders a point in Mapbox "lon,lat" order.
func FormatCoordinate(p model.Point) string {
	return strconv.FormatFloat(p.Longitude, 'f', 6, 64) + "," + strconv.FormatFloat(p.Latitude, 'f', 6, 64)
}

// DrivingRoutes returns at most count alternatives between start and end.
// A "NoRoute" answer yields an empty slice, not an error.
func (mc *MapboxClient) DrivingRoutes(ctx context.Context, start, end model.Point, count int) ([]Route, error) {
	if mc.APIKey == "" {
		return nil, fmt.Errorf("mapbox API key is not set")
	}

	coordinates := FormatCoordinate(start) + ";" + FormatCoordinate(end)
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s", mc.BaseURL, coordinates)

	params := url.Values{}
	params.Set("access_token", mc.APIKey)
	params.Set("geometries", "polyline6")
	params.Set("overview", "full")
	params.Set("alternatives", strconv.FormatBool(count != 1))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create directions request")
	}

	resp, err := mc.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute directions request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read directions response")
	}

	var result DirectionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("mapbox API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, errors.Wrap(err, "decode directions response")
	}

	switch {
	case result.Code == "NoRoute" || result.Code == "NoSegment":
		return []Route{}, nil
	case resp.StatusCode != http.StatusOK || result.Code != "Ok":
		return nil, fmt.Errorf("mapbox API error (status %d, code %q): %s", resp.StatusCode, result.Code, result.Message)
	}

	routes := make([]Route, 0, len(result.Routes))
	for _, r := range result.Routes {
		coords, err := util.DecodePolyline6(r.Geometry)
		if err != nil {
			return nil, errors.Wrap(err, "decode route geometry")
		}
		routes = append(routes, Route{
			Geometry:  geo.LineStringFromLatLon(coords),
			DistanceM: r.Distance,
			DurationS: r.Duration,
		})
		if count > 0 && len(routes) == count {
			break
		}
	}
	return routes, nil
}
