// Package routing turns driving routes into the single distance shown next
// to a search result.
package routing

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultSnapRadius is how far (meters) a point may lie from a route and
// still be matched to a position on it.
const DefaultSnapRadius = 100.0

// position is a location on a polyline: segment index plus fraction along it.
type position struct {
	segment  int
	fraction float64
}

// DistanceOnRoute measures the along-route distance between the route
// positions closest to start and end. It returns 0 when either point is
// farther than snapRadius from the route. The result is negative when end
// precedes start along the route.
func DistanceOnRoute(route orb.LineString, start, end orb.Point, snapRadius float64) float64 {
	from, ok := closestPosition(route, start, snapRadius)
	if !ok {
		return 0
	}
	to, ok := closestPosition(route, end, snapRadius)
	if !ok {
		return 0
	}
	return alongDistance(route, to) - alongDistance(route, from)
}

// MinimumPositive returns the smallest value above zero, or 0 if none.
func MinimumPositive(distances []float64) float64 {
	min := 0.0
	for _, d := range distances {
		if d > 0 && (min == 0 || d < min) {
			min = d
		}
	}
	return min
}

// Scale divides a distance by scale and truncates toward zero.
// A non-positive scale leaves the distance unscaled.
func Scale(distance float64, scale int) int {
	if scale <= 0 {
		scale = 1
	}
	return int(distance / float64(scale))
}

func closestPosition(route orb.LineString, p orb.Point, snapRadius float64) (position, bool) {
	switch len(route) {
	case 0:
		return position{}, false
	case 1:
		return position{}, geo.Distance(route[0], p) <= snapRadius
	}

	best := position{}
	bestDist := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		f := projectFraction(route[i], route[i+1], p)
		d := geo.Distance(interpolate(route[i], route[i+1], f), p)
		if d < bestDist {
			bestDist = d
			best = position{segment: i, fraction: f}
		}
	}
	return best, bestDist <= snapRadius
}

// projectFraction projects p onto segment a-b in a local equirectangular
// frame and clamps the result to [0, 1].
func projectFraction(a, b, p orb.Point) float64 {
	k := math.Cos((a.Lat() + b.Lat()) / 2 * math.Pi / 180)
	dx := (b.Lon() - a.Lon()) * k
	dy := b.Lat() - a.Lat()
	seg := dx*dx + dy*dy
	if seg == 0 {
		return 0
	}
	px := (p.Lon() - a.Lon()) * k
	py := p.Lat() - a.Lat()
	f := (px*dx + py*dy) / seg
	return math.Max(0, math.Min(1, f))
}

func interpolate(a, b orb.Point, f float64) orb.Point {
	return orb.Point{
		a.Lon() + (b.Lon()-a.Lon())*f,
		a.Lat() + (b.Lat()-a.Lat())*f,
	}
}

func alongDistance(route orb.LineString, pos position) float64 {
	if len(route) < 2 {
		return 0
	}
	d := geo.Length(route[:pos.segment+1])
	return d + geo.Distance(route[pos.segment], route[pos.segment+1])*pos.fraction
}
