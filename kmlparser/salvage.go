package kmlparser

import (
	"html"
	"regexp"
	"strings"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
)

func newTagRegexp(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<(?:\w+:)?` + tag + `\b[^>]*>(.*?)</(?:\w+:)?` + tag + `\s*>`)
}

var (
	placemarkRegexp   = newTagRegexp("Placemark")
	nameRegexp        = newTagRegexp("name")
	descriptionRegexp = newTagRegexp("description")
	coordinatesRegexp = newTagRegexp("coordinates")
	cdataRegexp       = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

	salvageGeometryRegexps = []struct {
		Kind   ownkml.ElementKind
		Regexp *regexp.Regexp
	}{
		{ownkml.ElementKindPoint, newTagRegexp("Point")},
		{ownkml.ElementKindLineString, newTagRegexp("LineString")},
		{ownkml.ElementKindPolygon, newTagRegexp("Polygon")},
	}
)

// Salvage does a best-effort scan of text that couldn't be parsed as XML, block by block.
// Styles aren't resolved (every element gets styling.SalvageStyle) and no metadata is calculated.
func Salvage(text string) *ownkml.Document {
	document := &ownkml.Document{
		Elements:  []*ownkml.Element{},
		ParseMode: ownkml.ParseModeSalvage,
	}

	for _, placemarkMatch := range placemarkRegexp.FindAllStringSubmatch(text, -1) {
		element := salvagePlacemark(placemarkMatch[1])
		if element == nil {
			continue
		}

		document.Elements = append(document.Elements, element)
	}

	return document
}

func salvagePlacemark(block string) *ownkml.Element {
	for _, geometry := range salvageGeometryRegexps {
		geometryMatch := geometry.Regexp.FindStringSubmatch(block)
		if geometryMatch == nil {
			continue
		}

		// the first geometry type found decides the element, even if it has no coordinates
		coordinates := ownkml.ParseCoordinates(firstMatchText(coordinatesRegexp, geometryMatch[1]))
		if len(coordinates) == 0 {
			return nil
		}

		name := firstMatchText(nameRegexp, block)

		var element *ownkml.Element
		switch geometry.Kind {
		case ownkml.ElementKindPoint:
			element = ownkml.NewPointElement(name, coordinates[0])
		case ownkml.ElementKindLineString:
			element = ownkml.NewLineStringElement(name, coordinates)
		case ownkml.ElementKindPolygon:
			element = ownkml.NewPolygonElement(name, [][]ownkml.Coordinate{coordinates})
		}

		element.Description = firstMatchText(descriptionRegexp, block)
		element.Style = styling.SalvageStyle

		return element
	}

	return nil
}

func firstMatchText(re *regexp.Regexp, text string) string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return ""
	}

	return cleanText(match[1])
}

func cleanText(text string) string {
	if cdataRegexp.MatchString(text) {
		return strings.TrimSpace(cdataRegexp.ReplaceAllString(text, "$1"))
	}

	return strings.TrimSpace(html.UnescapeString(text))
}
