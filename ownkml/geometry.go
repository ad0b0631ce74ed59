package ownkml

import (
	"github.com/paulmach/orb"
)

func (c Coordinate) ToOrbPoint() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func toOrbLineString(coordinates []Coordinate) orb.LineString {
	lineString := make(orb.LineString, 0, len(coordinates))
	for _, coordinate := range coordinates {
		lineString = append(lineString, coordinate.ToOrbPoint())
	}
	return lineString
}

// toOrbRing closes the ring if the document didn't
func toOrbRing(coordinates []Coordinate) orb.Ring {
	ring := orb.Ring(toOrbLineString(coordinates))
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Geometry returns the element as an orb geometry. Altitude is dropped.
func (e *Element) Geometry() orb.Geometry {
	switch e.Kind {
	case ElementKindPoint:
		if e.Point == nil {
			return nil
		}
		return e.Point.ToOrbPoint()
	case ElementKindLineString:
		return toOrbLineString(e.Line)
	case ElementKindPolygon:
		polygon := make(orb.Polygon, 0, len(e.Rings))
		for _, ring := range e.Rings {
			polygon = append(polygon, toOrbRing(ring))
		}
		return polygon
	default:
		return nil
	}
}
