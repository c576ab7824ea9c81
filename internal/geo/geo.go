// Package geo converts between the API's coordinate types and orb geometry.
// orb orders coordinates as [lon, lat].
package geo

import (
	"github.com/bwise1/placemark/internal/model"
	"github.com/paulmach/orb"
)

func ToOrb(p model.Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func FromOrb(p orb.Point) model.Point {
	return model.Point{Latitude: p.Lat(), Longitude: p.Lon()}
}

// RegionBound returns the smallest box containing all four region corners.
func RegionBound(r model.Region) orb.Bound {
	b := ToOrb(r.TopLeft).Bound()
	for _, c := range []model.Point{r.TopRight, r.BottomLeft, r.BottomRight} {
		b = b.Extend(ToOrb(c))
	}
	return b
}

// LineStringFromLatLon builds a line from [lat, lon] pairs as produced by
// polyline decoders.
func LineStringFromLatLon(coords [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ls = append(ls, orb.Point{c[1], c[0]})
	}
	return ls
}
