package kmlparser

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
)

const multiGeometryNameSuffix = " (Multi)"

// in order of precedence
var geometryTags = []ownkml.ElementKind{
	ownkml.ElementKindPoint,
	ownkml.ElementKindLineString,
	ownkml.ElementKindPolygon,
}

// ExtractElements creates one element per Placemark, at any depth in the document.
// Placemarks that can't be read are logged and skipped.
func ExtractElements(doc *etree.Document, styleTable styling.StyleTable, logger *logpkg.Logger) []*ownkml.Element {
	var elements []*ownkml.Element

	for idx, placemarkEl := range doc.FindElements("//Placemark") {
		element, err := extractPlacemarkSafely(placemarkEl, styleTable)
		if err != nil {
			logger.Warn("skipping placemark %d (%q): %s", idx, childText(placemarkEl, "name"), err.Error())
			continue
		}

		elements = append(elements, element)
	}

	return elements
}

func extractPlacemarkSafely(placemarkEl *etree.Element, styleTable styling.StyleTable) (element *ownkml.Element, err errorsx.Error) {
	defer func() {
		r := recover()
		if r != nil {
			element = nil
			err = errorsx.Errorf("panic reading placemark: %v", r)
		}
	}()

	return extractPlacemark(placemarkEl, styleTable)
}

func extractPlacemark(placemarkEl *etree.Element, styleTable styling.StyleTable) (*ownkml.Element, errorsx.Error) {
	geometryEl, kind, isMulti := findGeometry(placemarkEl)
	if geometryEl == nil {
		return nil, errorsx.Errorf("no supported geometry found")
	}

	name := childText(placemarkEl, "name")
	if isMulti && name != "" {
		name += multiGeometryNameSuffix
	}

	var element *ownkml.Element
	switch kind {
	case ownkml.ElementKindPoint:
		coordinates := ownkml.ParseCoordinates(childText(geometryEl, "coordinates"))
		if len(coordinates) == 0 {
			return nil, errorsx.Errorf("Point has no coordinates")
		}
		element = ownkml.NewPointElement(name, coordinates[0])
	case ownkml.ElementKindLineString:
		coordinates := ownkml.ParseCoordinates(childText(geometryEl, "coordinates"))
		if len(coordinates) == 0 {
			return nil, errorsx.Errorf("LineString has no coordinates")
		}
		element = ownkml.NewLineStringElement(name, coordinates)
		lengthKm := ownkml.LineLength(coordinates)
		element.Metadata = &ownkml.Metadata{LengthKm: &lengthKm}
	case ownkml.ElementKindPolygon:
		rings := extractPolygonRings(geometryEl)
		if len(rings) == 0 {
			return nil, errorsx.Errorf("Polygon has no outer boundary coordinates")
		}
		element = ownkml.NewPolygonElement(name, rings)
		areaKm2 := ownkml.PolygonArea(rings[0])
		element.Metadata = &ownkml.Metadata{AreaKm2: &areaKm2}
	default:
		return nil, errorsx.Errorf("unhandled geometry kind: %q", kind)
	}

	element.Description = childText(placemarkEl, "description")
	element.Style = placemarkStyle(placemarkEl, styleTable)
	element.ExtendedData = extractExtendedData(placemarkEl)

	return element, nil
}

// findGeometry looks at the direct children of the Placemark. A MultiGeometry is flattened to its first supported child.
func findGeometry(placemarkEl *etree.Element) (geometryEl *etree.Element, kind ownkml.ElementKind, isMulti bool) {
	geometryEl, kind = firstGeometryChild(placemarkEl)
	if geometryEl != nil {
		return geometryEl, kind, false
	}

	multiGeometryEl := placemarkEl.SelectElement("MultiGeometry")
	if multiGeometryEl == nil {
		return nil, "", false
	}

	geometryEl, kind = firstGeometryChild(multiGeometryEl)
	return geometryEl, kind, geometryEl != nil
}

func firstGeometryChild(parentEl *etree.Element) (*etree.Element, ownkml.ElementKind) {
	for _, kind := range geometryTags {
		el := parentEl.SelectElement(string(kind))
		if el != nil {
			return el, kind
		}
	}

	return nil, ""
}

func extractPolygonRings(polygonEl *etree.Element) [][]ownkml.Coordinate {
	outerEl := polygonEl.FindElement("outerBoundaryIs/LinearRing/coordinates")
	if outerEl == nil {
		return nil
	}

	outerRing := ownkml.ParseCoordinates(outerEl.Text())
	if len(outerRing) == 0 {
		return nil
	}

	rings := [][]ownkml.Coordinate{outerRing}
	for _, innerEl := range polygonEl.FindElements("innerBoundaryIs/LinearRing/coordinates") {
		innerRing := ownkml.ParseCoordinates(innerEl.Text())
		if len(innerRing) == 0 {
			continue
		}

		rings = append(rings, innerRing)
	}

	return rings
}

// placemarkStyle prefers an inline <Style> over a styleUrl reference
func placemarkStyle(placemarkEl *etree.Element, styleTable styling.StyleTable) *styling.Style {
	inlineStyleEl := placemarkEl.SelectElement("Style")
	if inlineStyleEl != nil {
		return styling.BuildStyle(inlineStyleEl)
	}

	styleURL := childText(placemarkEl, "styleUrl")
	if styleURL == "" {
		return nil
	}

	return styleTable.Lookup(styleURL)
}

func extractExtendedData(placemarkEl *etree.Element) map[string]string {
	extendedDataEl := placemarkEl.SelectElement("ExtendedData")
	if extendedDataEl == nil {
		return nil
	}

	data := make(map[string]string)

	for _, dataEl := range extendedDataEl.SelectElements("Data") {
		key := dataEl.SelectAttrValue("name", "")
		if key == "" {
			key = childText(dataEl, "name")
		}

		valueEl := dataEl.SelectElement("value")
		if key == "" || valueEl == nil {
			continue
		}

		data[key] = strings.TrimSpace(valueEl.Text())
	}

	for _, simpleDataEl := range extendedDataEl.FindElements("SchemaData/SimpleData") {
		key := simpleDataEl.SelectAttrValue("name", "")
		if key == "" {
			continue
		}

		data[key] = strings.TrimSpace(simpleDataEl.Text())
	}

	if len(data) == 0 {
		return nil
	}

	return data
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}

	return strings.TrimSpace(child.Text())
}
