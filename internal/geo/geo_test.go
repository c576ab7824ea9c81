package geo

import (
	"testing"

	"github.com/bwise1/placemark/internal/model"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestRegionBoundRotatedRegion(t *testing.T) {
	r := model.Region{
		TopLeft:     model.Point{Latitude: 41.35, Longitude: 69.20},
		TopRight:    model.Point{Latitude: 41.36, Longitude: 69.30},
		BottomLeft:  model.Point{Latitude: 41.25, Longitude: 69.19},
		BottomRight: model.Point{Latitude: 41.26, Longitude: 69.31},
	}

	b := RegionBound(r)
	assert.Equal(t, 69.19, b.Left())
	assert.Equal(t, 69.31, b.Right())
	assert.Equal(t, 41.25, b.Bottom())
	assert.Equal(t, 41.36, b.Top())
}

func TestPointConversion(t *testing.T) {
	p := model.Point{Latitude: 41.31, Longitude: 69.24}
	o := ToOrb(p)
	assert.Equal(t, orb.Point{69.24, 41.31}, o)
	assert.Equal(t, p, FromOrb(o))
}

func TestLineStringFromLatLon(t *testing.T) {
	ls := LineStringFromLatLon([][]float64{{41.0, 69.0}, {41.1}, {41.2, 69.2}})
	assert.Equal(t, orb.LineString{{69.0, 41.0}, {69.2, 41.2}}, ls)
}
