// Package mapkit is the map provider handle: reverse geocoding, bounded
// place search and driving routes. Create one with New at process start and
// Close it at shutdown.
package mapkit

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/bwise1/placemark/internal/model"
	"github.com/paulmach/orb"
)

type Geocoder interface {
	ReverseGeocode(ctx context.Context, point model.Point, zoom int, pageSize int) ([]model.GeoObject, error)
}

type Searcher interface {
	Search(ctx context.Context, keyword string, region model.Region, searchType model.SearchType, pageSize int) ([]model.GeoObject, error)
}

type DrivingRouter interface {
	DrivingRoutes(ctx context.Context, start, end model.Point, count int) ([]Route, error)
}

// Route is one driving alternative.
type Route struct {
	Geometry  orb.LineString
	DistanceM float64
	DurationS float64
}

type Options struct {
	StadiaAPIKey  string
	StadiaBaseURL string
	MapboxAPIKey  string
	MapboxBaseURL string
	// RoutingProvider selects the driving router: "mapbox" (default) or
	// "valhalla". Valhalla uses the Stadia key.
	RoutingProvider string
	ValhallaBaseURL string
	Timeout         time.Duration
}

// Client bundles the providers behind one lifecycle.
type Client struct {
	stadia     *StadiaClient
	router     DrivingRouter
	transport  *http.Transport
	httpClient *http.Client
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	httpClient := &http.Client{Timeout: opts.Timeout, Transport: transport}

	if opts.StadiaAPIKey == "" {
		log.Println("Warning: Stadia API Key is empty.")
	}

	var router DrivingRouter
	switch opts.RoutingProvider {
	case "valhalla":
		router = NewValhallaClient(opts.ValhallaBaseURL, opts.StadiaAPIKey, httpClient)
	default:
		if opts.MapboxAPIKey == "" {
			log.Println("Warning: Mapbox API Key is empty.")
		}
		router = NewMapboxClient(opts.MapboxBaseURL, opts.MapboxAPIKey, httpClient)
	}

	return &Client{
		stadia:     NewStadiaClient(opts.StadiaBaseURL, opts.StadiaAPIKey, httpClient),
		router:     router,
		transport:  transport,
		httpClient: httpClient,
	}
}

func (c *Client) ReverseGeocode(ctx context.Context, point model.Point, zoom int, pageSize int) ([]model.GeoObject, error) {
	return c.stadia.ReverseGeocode(ctx, point, zoom, pageSize)
}

func (c *Client) Search(ctx context.Context, keyword string, region model.Region, searchType model.SearchType, pageSize int) ([]model.GeoObject, error) {
	return c.stadia.Search(ctx, keyword, region, searchType, pageSize)
}

func (c *Client) DrivingRoutes(ctx context.Context, start, end model.Point, count int) ([]Route, error) {
	return c.router.DrivingRoutes(ctx, start, end, count)
}

// Close releases pooled connections. The client must not be used afterwards.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}
