package ownkml

import (
	"github.com/paulmach/osm"
)

// Overlaps checks whether an item is at least partially inside a container
func Overlaps(container osm.Bounds, item osm.Bounds) bool {
	if container.MinLat > item.MaxLat {
		// container is wholly above item
		return false
	}

	if container.MaxLat < item.MinLat {
		// container is wholly below item
		return false
	}

	if container.MinLon > item.MaxLon {
		// container is wholly to the right of item
		return false
	}

	if container.MaxLon < item.MinLon {
		// container is wholly to the left of item
		return false
	}

	return true
}

func GetWholeWorldBounds() osm.Bounds {
	return osm.Bounds{
		MaxLat: 90,
		MinLat: -90,
		MaxLon: 180,
		MinLon: -180,
	}
}

// BoundsOf returns the smallest bounds containing all the coordinates.
// ok is false when there are no coordinates.
func BoundsOf(coordinates []Coordinate) (bounds osm.Bounds, ok bool) {
	for i, coordinate := range coordinates {
		if i == 0 {
			bounds = osm.Bounds{
				MinLat: coordinate.Lat,
				MaxLat: coordinate.Lat,
				MinLon: coordinate.Lon,
				MaxLon: coordinate.Lon,
			}
			continue
		}

		if coordinate.Lat < bounds.MinLat {
			bounds.MinLat = coordinate.Lat
		}
		if coordinate.Lat > bounds.MaxLat {
			bounds.MaxLat = coordinate.Lat
		}
		if coordinate.Lon < bounds.MinLon {
			bounds.MinLon = coordinate.Lon
		}
		if coordinate.Lon > bounds.MaxLon {
			bounds.MaxLon = coordinate.Lon
		}
	}

	return bounds, len(coordinates) != 0
}

func (e *Element) Bounds() (osm.Bounds, bool) {
	return BoundsOf(e.Coordinates())
}

// Bounds returns the area covered by all elements in the document
func (d *Document) Bounds() (osm.Bounds, bool) {
	var coordinates []Coordinate
	for _, element := range d.Elements {
		coordinates = append(coordinates, element.Coordinates()...)
	}

	return BoundsOf(coordinates)
}

// ElementsInBounds returns the elements that are at least partially inside the given bounds
func (d *Document) ElementsInBounds(bounds osm.Bounds) []*Element {
	var elements []*Element
	for _, element := range d.Elements {
		elementBounds, ok := element.Bounds()
		if !ok {
			continue
		}

		if !Overlaps(bounds, elementBounds) {
			continue
		}

		elements = append(elements, element)
	}

	return elements
}
