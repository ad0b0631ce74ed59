package ownkml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	oneDegreeOnGreatCircle := EarthRadiusKm * math.Pi / 180

	type args struct {
		lat1, lon1, lat2, lon2 float64
	}
	tests := []struct {
		name string
		args args
		want float64
	}{
		{"same point", args{52.5, -1.5, 52.5, -1.5}, 0},
		{"one degree of latitude", args{0, 0, 1, 0}, oneDegreeOnGreatCircle},
		{"one degree of longitude on the equator", args{0, 0, 0, 1}, oneDegreeOnGreatCircle},
		{"london to paris", args{51.5074, -0.1278, 48.8566, 2.3522}, 343.56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.args.lat1, tt.args.lon1, tt.args.lat2, tt.args.lon2)
			assert.InDelta(t, tt.want, got, 0.01)

			reversed := Distance(tt.args.lat2, tt.args.lon2, tt.args.lat1, tt.args.lon1)
			assert.InDelta(t, got, reversed, 1e-9)
		})
	}
}

func TestLineLength(t *testing.T) {
	assert.Equal(t, 0.0, LineLength(nil))
	assert.Equal(t, 0.0, LineLength([]Coordinate{{Lon: 1, Lat: 1}}))

	line := []Coordinate{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}, {Lon: 0, Lat: 2}}
	assert.InDelta(t, 2*EarthRadiusKm*math.Pi/180, LineLength(line), 1e-9)
}

func TestPolygonArea(t *testing.T) {
	t.Run("degenerate rings have no area", func(t *testing.T) {
		assert.Equal(t, 0.0, PolygonArea(nil))
		assert.Equal(t, 0.0, PolygonArea([]Coordinate{{Lon: 0, Lat: 0}}))
		assert.Equal(t, 0.0, PolygonArea([]Coordinate{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}))
	})

	t.Run("one degree square at the equator", func(t *testing.T) {
		ring := []Coordinate{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}

		// roughly 111km x 111km
		assert.InDelta(t, 12364, PolygonArea(ring), 10)
	})

	t.Run("winding order and explicit closing don't matter", func(t *testing.T) {
		ring := []Coordinate{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}
		reversed := []Coordinate{{Lon: 0, Lat: 1}, {Lon: 1, Lat: 1}, {Lon: 1, Lat: 0}, {Lon: 0, Lat: 0}}
		closed := append(append([]Coordinate{}, ring...), ring[0])

		assert.InDelta(t, PolygonArea(ring), PolygonArea(reversed), 1e-6)
		assert.InDelta(t, PolygonArea(ring), PolygonArea(closed), 1e-6)
	})
}
