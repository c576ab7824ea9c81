package mapkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/bwise1/placemark/internal/geo"
	"github.com/bwise1/placemark/internal/model"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const (
	defaultStadiaBaseURL = "https://api.stadiamaps.com"
)

// StadiaClient talks to the Stadia Maps (Pelias) geocoding API.
type StadiaClient struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

func NewStadiaClient(baseURL, apiKey string, httpClient *http.Client) *StadiaClient {
	if baseURL == "" {
		baseURL = defaultStadiaBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		u, _ = url.Parse(defaultStadiaBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StadiaClient{BaseURL: u, APIKey: apiKey, HTTPClient: httpClient}
}

// GeocodeQuery represents parameters for geocoding requests.
type GeocodeQuery struct {
	Text           string   `url:"text,omitempty"`
	PointLat       *float64 `url:"point.lat,omitempty"`
	PointLon       *float64 `url:"point.lon,omitempty"`
	Size           *int     `url:"size,omitempty"`
	Layers         []string `url:"layers,omitempty,comma"`
	BoundaryMinLat *float64 `url:"boundary.rect.min_lat,omitempty"`
	BoundaryMinLon *float64 `url:"boundary.rect.min_lon,omitempty"`
	BoundaryMaxLat *float64 `url:"boundary.rect.max_lat,omitempty"`
	BoundaryMaxLon *float64 `url:"boundary.rect.max_lon,omitempty"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Geometry *struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type featureProperties struct {
	Gid      string   `json:"gid"`
	Layer    string   `json:"layer"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Street   string   `json:"street,omitempty"`
	Locality string   `json:"locality,omitempty"`
	Region   string   `json:"region,omitempty"`
	Country  string   `json:"country,omitempty"`
	Category []string `json:"category,omitempty"`
	Addendum struct {
		OSM struct {
			OpeningHours string `json:"opening_hours,omitempty"`
			Phone        string `json:"phone,omitempty"`
			Website      string `json:"website,omitempty"`
		} `json:"osm,omitempty"`
	} `json:"addendum,omitempty"`
}

var toponymLayers = map[string]bool{
	"address": true, "street": true, "neighbourhood": true, "borough": true,
	"locality": true, "localadmin": true, "county": true, "region": true,
	"macroregion": true, "country": true, "postalcode": true,
}

// layersForZoom picks reverse geocoding granularity from the map zoom.
func layersForZoom(zoom int) []string {
	switch {
	case zoom >= 16:
		return []string{"address", "venue", "street"}
	case zoom >= 12:
		return []string{"street", "neighbourhood", "locality"}
	case zoom >= 8:
		return []string{"locality", "county", "region"}
	default:
		return []string{"region", "country"}
	}
}

// buildURL constructs the API URL with query parameters.
func (c *StadiaClient) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	q := u.Query()
	q.Set("api_key", c.APIKey)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		for k, vals := range v {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ReverseGeocode finds geo objects at a point.
// Endpoint: /geocoding/v1/reverse
func (c *StadiaClient) ReverseGeocode(ctx context.Context, point model.Point, zoom int, pageSize int) ([]model.GeoObject, error) {
	params := &GeocodeQuery{
		PointLat: &point.Latitude,
		PointLon: &point.Longitude,
		Layers:   layersForZoom(zoom),
	}
	if pageSize > 0 {
		params.Size = &pageSize
	}

	var result featureCollection
	if err := c.get(ctx, "/geocoding/v1/reverse", params, &result); err != nil {
		return nil, errors.Wrap(err, "reverse geocode")
	}
	return result.geoObjects(), nil
}

// Search performs a keyword search bounded to region.
// Endpoint: /geocoding/v1/search
func (c *StadiaClient) Search(ctx context.Context, keyword string, region model.Region, searchType model.SearchType, pageSize int) ([]model.GeoObject, error) {
	bound := geo.RegionBound(region)
	minLat, minLon := bound.Bottom(), bound.Left()
	maxLat, maxLon := bound.Top(), bound.Right()

	params := &GeocodeQuery{
		Text:           keyword,
		BoundaryMinLat: &minLat,
		BoundaryMinLon: &minLon,
		BoundaryMaxLat: &maxLat,
		BoundaryMaxLon: &maxLon,
	}
	if searchType == model.SearchTypeBiz {
		params.Layers = []string{"venue"}
	}
	if pageSize > 0 {
		params.Size = &pageSize
	}

	var result featureCollection
	if err := c.get(ctx, "/geocoding/v1/search", params, &result); err != nil {
		return nil, errors.Wrap(err, "search")
	}
	return result.geoObjects(), nil
}

func (c *StadiaClient) get(ctx context.Context, endpoint string, params interface{}, v interface{}) error {
	reqURL, err := c.buildURL(endpoint, params)
	if err != nil {
		return errors.Wrap(err, "build URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	return c.do(req, v)
}

// do executes HTTP requests and decodes JSON responses.
func (c *StadiaClient) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}

func (fc featureCollection) geoObjects() []model.GeoObject {
	out := make([]model.GeoObject, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.geoObject())
	}
	return out
}

func (f feature) geoObject() model.GeoObject {
	props := f.Properties
	obj := model.GeoObject{
		Name:        props.Name,
		Description: props.description(),
		Category:    props.category(),
	}
	if f.Geometry != nil && len(f.Geometry.Coordinates) >= 2 {
		obj.Point = &model.Point{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
		}
	}
	return obj
}

// description is the coarse location under the name, e.g. "Tashkent, Uzbekistan".
func (p featureProperties) description() string {
	var parts []string
	for _, s := range []string{p.Locality, p.Region, p.Country} {
		if s != "" && s != p.Name && (len(parts) == 0 || parts[len(parts)-1] != s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return p.Label
	}
	return strings.Join(parts, ", ")
}

func (p featureProperties) category() model.Category {
	switch {
	case p.Layer == "venue":
		osm := p.Addendum.OSM
		return model.BusinessCategory(model.Business{
			Name:         p.Name,
			WorkingHours: nonEmpty(osm.OpeningHours),
			Categories:   joinUnique(p.Category),
			Phones:       nonEmpty(osm.Phone),
			Link:         nonEmpty(osm.Website),
		})
	case toponymLayers[p.Layer]:
		address := p.Label
		if address == "" {
			address = p.Name
		}
		return model.ToponymCategory(address)
	default:
		return model.UndefinedCategory()
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func joinUnique(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return nonEmpty(strings.Join(out, ", "))
}
