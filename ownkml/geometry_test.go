package ownkml

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestElement_Geometry(t *testing.T) {
	point := NewPointElement("p", Coordinate{Lon: 1, Lat: 2, Alt: 3})
	assert.Equal(t, orb.Point{1, 2}, point.Geometry())

	line := NewLineStringElement("l", []Coordinate{{Lon: 1, Lat: 2}, {Lon: 3, Lat: 4}})
	assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, line.Geometry())

	polygon := NewPolygonElement("poly", [][]Coordinate{
		{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}},
		{{Lon: 0.2, Lat: 0.2}, {Lon: 0.4, Lat: 0.2}, {Lon: 0.4, Lat: 0.4}, {Lon: 0.2, Lat: 0.2}},
	})
	assert.Equal(t, orb.Polygon{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		{{0.2, 0.2}, {0.4, 0.2}, {0.4, 0.4}, {0.2, 0.2}},
	}, polygon.Geometry())
}

func TestElement_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewPointElement("", Coordinate{}).ID
		assert.False(t, seen[id])
		seen[id] = true
	}
}
