package kmlexport

import (
	"fmt"
	"io"
	"net/url"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	kml "github.com/twpayne/go-kml"
)

// ToKML builds a normalized KML document: one shared Style per distinct style, one Placemark per element.
// Fill opacity is carried by the PolyStyle fill flag; colors are written fully opaque.
func ToKML(document *ownkml.Document) *kml.CompoundElement {
	var children []kml.Element
	if document.Name != "" {
		children = append(children, kml.Name(document.Name))
	}
	if document.Description != "" {
		children = append(children, kml.Description(document.Description))
	}

	sharedStyles := make(map[*styling.Style]*kml.SharedElement)
	for _, element := range document.Elements {
		if element.Style == nil {
			continue
		}

		_, ok := sharedStyles[element.Style]
		if ok {
			continue
		}

		sharedStyle := toSharedStyle(fmt.Sprintf("style%d", len(sharedStyles)), element.Style)
		sharedStyles[element.Style] = sharedStyle
		children = append(children, sharedStyle)
	}

	for _, element := range document.Elements {
		placemark := toPlacemark(element, sharedStyles[element.Style])
		if placemark == nil {
			continue
		}
		children = append(children, placemark)
	}

	return kml.KML(kml.Document(children...))
}

// Write writes the document as indented KML
func Write(w io.Writer, document *ownkml.Document) errorsx.Error {
	err := ToKML(document).WriteIndent(w, "", "  ")
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func toSharedStyle(id string, style *styling.Style) *kml.SharedElement {
	var styleChildren []kml.Element

	if style.LineColor != "" || style.LineWidth != nil {
		var lineStyleChildren []kml.Element
		if style.LineColor != "" {
			lineStyleChildren = append(lineStyleChildren, kml.Color(styling.ParseHexColor(style.LineColor, 1)))
		}
		if style.LineWidth != nil {
			lineStyleChildren = append(lineStyleChildren, kml.Width(*style.LineWidth))
		}
		styleChildren = append(styleChildren, kml.LineStyle(lineStyleChildren...))
	}

	if style.FillColor != "" || style.FillOpacity != nil || style.StrokeOpacity != nil {
		var polyStyleChildren []kml.Element
		if style.FillColor != "" {
			polyStyleChildren = append(polyStyleChildren, kml.Color(styling.ParseHexColor(style.FillColor, 1)))
		}
		if style.FillOpacity != nil {
			polyStyleChildren = append(polyStyleChildren, kml.Fill(*style.FillOpacity > 0))
		}
		if style.StrokeOpacity != nil {
			polyStyleChildren = append(polyStyleChildren, kml.Outline(*style.StrokeOpacity > 0))
		}
		styleChildren = append(styleChildren, kml.PolyStyle(polyStyleChildren...))
	}

	if style.IconURL != "" || style.IconScale != nil {
		var iconStyleChildren []kml.Element
		if style.IconScale != nil {
			iconStyleChildren = append(iconStyleChildren, kml.Scale(*style.IconScale))
		}
		if style.IconURL != "" {
			iconURL, err := url.Parse(style.IconURL)
			if err == nil {
				iconStyleChildren = append(iconStyleChildren, kml.Icon(kml.Href(iconURL.String())))
			}
		}
		styleChildren = append(styleChildren, kml.IconStyle(iconStyleChildren...))
	}

	return kml.SharedStyle(id, styleChildren...)
}

func toPlacemark(element *ownkml.Element, sharedStyle *kml.SharedElement) *kml.CompoundElement {
	geometry := toGeometry(element)
	if geometry == nil {
		return nil
	}

	var children []kml.Element
	if element.Name != "" {
		children = append(children, kml.Name(element.Name))
	}
	if element.Description != "" {
		children = append(children, kml.Description(element.Description))
	}
	if sharedStyle != nil {
		children = append(children, kml.StyleURL(sharedStyle.URL()))
	}
	if len(element.ExtendedData) != 0 {
		children = append(children, toExtendedData(element.ExtendedData))
	}

	children = append(children, geometry)

	return kml.Placemark(children...)
}

func toExtendedData(extendedData map[string]string) *kml.CompoundElement {
	keys := make([]string, 0, len(extendedData))
	for key := range extendedData {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var dataElements []kml.Element
	for _, key := range keys {
		dataElements = append(dataElements, kml.Data(kml.Name(key), kml.Value(extendedData[key])))
	}

	return kml.ExtendedData(dataElements...)
}

func toGeometry(element *ownkml.Element) kml.Element {
	switch element.Kind {
	case ownkml.ElementKindPoint:
		if element.Point == nil {
			return nil
		}
		return kml.Point(kml.Coordinates(toKMLCoordinate(*element.Point)))
	case ownkml.ElementKindLineString:
		return kml.LineString(kml.Coordinates(toKMLCoordinates(element.Line)...))
	case ownkml.ElementKindPolygon:
		if len(element.Rings) == 0 {
			return nil
		}

		polygonChildren := []kml.Element{
			kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(toKMLCoordinates(element.Rings[0])...))),
		}
		for _, innerRing := range element.Rings[1:] {
			polygonChildren = append(polygonChildren, kml.InnerBoundaryIs(kml.LinearRing(kml.Coordinates(toKMLCoordinates(innerRing)...))))
		}
		return kml.Polygon(polygonChildren...)
	default:
		return nil
	}
}

func toKMLCoordinate(coordinate ownkml.Coordinate) kml.Coordinate {
	return kml.Coordinate{Lon: coordinate.Lon, Lat: coordinate.Lat, Alt: coordinate.Alt}
}

func toKMLCoordinates(coordinates []ownkml.Coordinate) []kml.Coordinate {
	kmlCoordinates := make([]kml.Coordinate, 0, len(coordinates))
	for _, coordinate := range coordinates {
		kmlCoordinates = append(kmlCoordinates, toKMLCoordinate(coordinate))
	}
	return kmlCoordinates
}
