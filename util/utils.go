package util

import (
	"fmt"
	"log"
	"strings"

	"github.com/twpayne/go-polyline"
)

// polyline6 is the precision Mapbox uses for geometries=polyline6.
var polyline6 = polyline.Codec{Dim: 2, Scale: 1e6}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// DecodePolyline6 decodes a precision-6 encoded polyline into [lat, lon] pairs.
func DecodePolyline6(shape string) ([][]float64, error) {
	decoded, rest, err := polyline6.DecodeCoords([]byte(shape))
	if err != nil {
		log.Println("error decoding polyline: ", err)
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}
	return decoded, nil
}

// EncodePolyline6 is the inverse of DecodePolyline6.
func EncodePolyline6(coords [][]float64) string {
	return string(polyline6.EncodeCoords(nil, coords))
}
