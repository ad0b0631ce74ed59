package ownkml

import (
	"github.com/google/uuid"
	"github.com/jamesrr39/ownkml/styling"
)

type ElementKind string

const (
	ElementKindPoint      ElementKind = "Point"
	ElementKindLineString ElementKind = "LineString"
	ElementKindPolygon    ElementKind = "Polygon"
)

// ParseMode records which parsing tier produced a Document
type ParseMode string

const (
	ParseModeStructured ParseMode = "structured"
	ParseModeSalvage    ParseMode = "salvage"
)

// Coordinate is a single lng,lat,alt tuple. Alt is 0 when not given.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	Alt float64 `json:"alt"`
}

// Metadata holds derived metrics. LengthKm is only set for LineStrings, AreaKm2 only for Polygons.
type Metadata struct {
	LengthKm *float64 `json:"lengthKm,omitempty"`
	AreaKm2  *float64 `json:"areaKm2,omitempty"`
}

// Element is one drawable feature, taken from a Placemark.
// Exactly one of Point, Line and Rings is populated, depending on Kind.
type Element struct {
	ID           string            `json:"id"`
	Kind         ElementKind       `json:"kind"`
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	Point        *Coordinate       `json:"point,omitempty"`
	Line         []Coordinate      `json:"line,omitempty"`
	Rings        [][]Coordinate    `json:"rings,omitempty"` // first ring is the outer boundary, the rest are holes
	Style        *styling.Style    `json:"style,omitempty"`
	ExtendedData map[string]string `json:"extendedData,omitempty"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
}

func NewPointElement(name string, coordinate Coordinate) *Element {
	return &Element{
		ID:    NewElementID(),
		Kind:  ElementKindPoint,
		Name:  name,
		Point: &coordinate,
	}
}

func NewLineStringElement(name string, coordinates []Coordinate) *Element {
	return &Element{
		ID:   NewElementID(),
		Kind: ElementKindLineString,
		Name: name,
		Line: coordinates,
	}
}

func NewPolygonElement(name string, rings [][]Coordinate) *Element {
	return &Element{
		ID:    NewElementID(),
		Kind:  ElementKindPolygon,
		Name:  name,
		Rings: rings,
	}
}

// NewElementID returns a process-unique opaque identifier
func NewElementID() string {
	return uuid.New().String()
}

// Coordinates returns every coordinate of the element, in document order
func (e *Element) Coordinates() []Coordinate {
	switch e.Kind {
	case ElementKindPoint:
		if e.Point == nil {
			return nil
		}
		return []Coordinate{*e.Point}
	case ElementKindLineString:
		return e.Line
	case ElementKindPolygon:
		var coordinates []Coordinate
		for _, ring := range e.Rings {
			coordinates = append(coordinates, ring...)
		}
		return coordinates
	default:
		return nil
	}
}

// Document is the result of parsing one KML document
type Document struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Elements    []*Element `json:"elements"`
	ParseMode   ParseMode  `json:"parseMode"`
}

// CountByKind returns the amount of elements of each kind
func (d *Document) CountByKind() map[ElementKind]int {
	counts := map[ElementKind]int{
		ElementKindPoint:      0,
		ElementKindLineString: 0,
		ElementKindPolygon:    0,
	}

	for _, element := range d.Elements {
		counts[element.Kind]++
	}

	return counts
}
