package mapkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwise1/placemark/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reverseBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [69.2401, 41.2995]},
      "properties": {
        "gid": "openstreetmap:address:node/1",
        "layer": "address",
        "name": "12 Navoi Street",
        "label": "12 Navoi Street, Tashkent, Uzbekistan",
        "locality": "Tashkent",
        "country": "Uzbekistan"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [69.241, 41.3]},
      "properties": {"layer": "street", "name": "Navoi Street"}
    }
  ]
}`

const searchBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [69.28, 41.31]},
      "properties": {
        "layer": "venue",
        "name": "Central Pharmacy",
        "label": "Central Pharmacy, Tashkent, Uzbekistan",
        "locality": "Tashkent",
        "region": "Tashkent",
        "country": "Uzbekistan",
        "category": ["health", "retail", "health"],
        "addendum": {"osm": {"opening_hours": "24/7", "phone": "+998 71 200 00 00", "website": "https://pharmacy.example"}}
      }
    },
    {
      "type": "Feature",
      "geometry": null,
      "properties": {"layer": "mystery", "name": "Unknown"}
    }
  ]
}`

func TestStadiaReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoding/v1/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "41.2995", q.Get("point.lat"))
		assert.Equal(t, "69.2401", q.Get("point.lon"))
		assert.Equal(t, "47", q.Get("size"))
		assert.Equal(t, "address,venue,street", q.Get("layers"))
		w.Write([]byte(reverseBody))
	}))
	defer srv.Close()

	c := NewStadiaClient(srv.URL, "test-key", srv.Client())
	objs, err := c.ReverseGeocode(context.Background(), model.Point{Latitude: 41.2995, Longitude: 69.2401}, 17, 47)
	require.NoError(t, err)
	require.Len(t, objs, 2)

	assert.Equal(t, "12 Navoi Street", objs[0].Name)
	assert.Equal(t, "Tashkent, Uzbekistan", objs[0].Description)
	assert.Equal(t, &model.Point{Latitude: 41.2995, Longitude: 69.2401}, objs[0].Point)
	assert.Equal(t, model.ToponymCategory("12 Navoi Street, Tashkent, Uzbekistan"), objs[0].Category)

	assert.Equal(t, model.ToponymCategory("Navoi Street"), objs[1].Category)
}

func TestStadiaSearchBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoding/v1/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pharmacy", q.Get("text"))
		assert.Equal(t, "venue", q.Get("layers"))
		assert.Equal(t, "5", q.Get("size"))
		assert.Equal(t, "41.2", q.Get("boundary.rect.min_lat"))
		assert.Equal(t, "69.1", q.Get("boundary.rect.min_lon"))
		assert.Equal(t, "41.4", q.Get("boundary.rect.max_lat"))
		assert.Equal(t, "69.4", q.Get("boundary.rect.max_lon"))
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	region := model.Region{
		TopLeft:     model.Point{Latitude: 41.4, Longitude: 69.1},
		TopRight:    model.Point{Latitude: 41.4, Longitude: 69.4},
		BottomLeft:  model.Point{Latitude: 41.2, Longitude: 69.1},
		BottomRight: model.Point{Latitude: 41.2, Longitude: 69.4},
	}

	c := NewStadiaClient(srv.URL, "k", srv.Client())
	objs, err := c.Search(context.Background(), "pharmacy", region, model.SearchTypeBiz, 5)
	require.NoError(t, err)
	require.Len(t, objs, 2)

	pharmacy := objs[0]
	assert.Equal(t, "Tashkent, Uzbekistan", pharmacy.Description)
	require.Equal(t, model.CategoryBusiness, pharmacy.Category.Kind)
	b := pharmacy.Category.Business
	assert.Equal(t, "Central Pharmacy", b.Name)
	assert.Equal(t, "24/7", *b.WorkingHours)
	assert.Equal(t, "health, retail", *b.Categories)
	assert.Equal(t, "+998 71 200 00 00", *b.Phones)
	assert.Equal(t, "https://pharmacy.example", *b.Link)

	assert.Nil(t, objs[1].Point)
	assert.Equal(t, model.UndefinedCategory(), objs[1].Category)
}

func TestStadiaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewStadiaClient(srv.URL, "k", srv.Client())
	_, err := c.ReverseGeocode(context.Background(), model.Point{}, 10, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestLayersForZoom(t *testing.T) {
	cases := []struct {
		zoom int
		want []string
	}{
		{18, []string{"address", "venue", "street"}},
		{16, []string{"address", "venue", "street"}},
		{13, []string{"street", "neighbourhood", "locality"}},
		{9, []string{"locality", "county", "region"}},
		{3, []string{"region", "country"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, layersForZoom(tc.zoom), "zoom %d", tc.zoom)
	}
}
