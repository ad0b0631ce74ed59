package ownkml

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	containerBounds := osm.Bounds{
		MaxLat: 1,
		MinLat: -1,
		MaxLon: 1,
		MinLon: -1,
	}

	tests := []struct {
		name string
		item osm.Bounds
		want bool
	}{
		{"item above container", osm.Bounds{MaxLat: 90, MinLat: 89, MaxLon: 1, MinLon: -1}, false},
		{"item below container", osm.Bounds{MaxLat: -50, MinLat: -51, MaxLon: 1, MinLon: -1}, false},
		{"item to the left of container", osm.Bounds{MaxLat: 1, MinLat: -1, MaxLon: -2, MinLon: -3}, false},
		{"item to the right of container", osm.Bounds{MaxLat: 1, MinLat: -1, MaxLon: 3, MinLon: 2}, false},
		{"item fully inside container", osm.Bounds{MaxLat: 0.5, MinLat: -0.5, MaxLon: 0.5, MinLon: -0.5}, true},
		{"item partially inside container (top side)", osm.Bounds{MaxLat: 2, MinLat: 1, MaxLon: 0.8, MinLon: 0.2}, true},
		{"item partially inside container (left side)", osm.Bounds{MaxLat: 1, MinLat: -1, MaxLon: -1, MinLon: -2}, true},
		{"item partially inside container (bottom-right side)", osm.Bounds{MaxLat: -0.5, MinLat: -1.5, MaxLon: 1.5, MinLon: 0.5}, true},
		{"item == container", containerBounds, true},
		{"single point item", osm.Bounds{MaxLat: 0, MinLat: 0, MaxLon: 0, MinLon: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(containerBounds, tt.item))
		})
	}
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	bounds, ok := BoundsOf([]Coordinate{{Lon: 1, Lat: 2}, {Lon: -3, Lat: 5}, {Lon: 0, Lat: -1}})
	assert.True(t, ok)
	assert.Equal(t, osm.Bounds{MinLat: -1, MaxLat: 5, MinLon: -3, MaxLon: 1}, bounds)
}

func TestDocument_ElementsInBounds(t *testing.T) {
	inside := NewPointElement("inside", Coordinate{Lon: 0.5, Lat: 0.5})
	outside := NewPointElement("outside", Coordinate{Lon: 10, Lat: 10})
	crossing := NewLineStringElement("crossing", []Coordinate{{Lon: -5, Lat: 0}, {Lon: 5, Lat: 0}})

	document := &Document{Elements: []*Element{inside, outside, crossing}}

	got := document.ElementsInBounds(osm.Bounds{MinLat: -1, MaxLat: 1, MinLon: -1, MaxLon: 1})
	assert.Equal(t, []*Element{inside, crossing}, got)

	bounds, ok := document.Bounds()
	assert.True(t, ok)
	assert.Equal(t, osm.Bounds{MinLat: 0, MaxLat: 10, MinLon: -5, MaxLon: 10}, bounds)

	_, ok = (&Document{}).Bounds()
	assert.False(t, ok)
}
