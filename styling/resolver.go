package styling

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	polyStyleFillOpacity    = 0.5
	polyStyleOutlineOpacity = 1
)

// ResolveStyles builds the style table for a parsed KML document.
// Shared Styles are resolved first, then StyleMaps are aliased to the "normal" Style they point at.
// Anything that can't be resolved is left out of the table.
func ResolveStyles(doc *etree.Document) StyleTable {
	table := make(StyleTable)

	for _, styleEl := range doc.FindElements("//Style") {
		id := styleEl.SelectAttrValue("id", "")
		if id == "" {
			continue
		}

		table[id] = BuildStyle(styleEl)
	}

	for _, styleMapEl := range doc.FindElements("//StyleMap") {
		id := styleMapEl.SelectAttrValue("id", "")
		if id == "" {
			continue
		}

		style := resolveStyleMap(styleMapEl, table)
		if style == nil {
			continue
		}

		table[id] = style
	}

	return table
}

func resolveStyleMap(styleMapEl *etree.Element, table StyleTable) *Style {
	for _, pairEl := range styleMapEl.SelectElements("Pair") {
		if childText(pairEl, "key") != "normal" {
			continue
		}

		styleURL := childText(pairEl, "styleUrl")
		if !strings.HasPrefix(styleURL, "#") {
			return nil
		}

		return table.Lookup(styleURL)
	}

	return nil
}

// BuildStyle reads a single <Style> element
func BuildStyle(styleEl *etree.Element) *Style {
	style := new(Style)

	lineStyleEl := styleEl.SelectElement("LineStyle")
	if lineStyleEl != nil {
		if colorEl := lineStyleEl.SelectElement("color"); colorEl != nil {
			style.LineColor = ColorFromKML(strings.TrimSpace(colorEl.Text()))
		}
		if width, ok := childFloat(lineStyleEl, "width"); ok {
			style.LineWidth = Float64(width)
		}
	}

	polyStyleEl := styleEl.SelectElement("PolyStyle")
	if polyStyleEl != nil {
		if colorEl := polyStyleEl.SelectElement("color"); colorEl != nil {
			style.FillColor = ColorFromKML(strings.TrimSpace(colorEl.Text()))
		}
		if fillEl := polyStyleEl.SelectElement("fill"); fillEl != nil {
			fillOpacity := 0.0
			if strings.TrimSpace(fillEl.Text()) == "1" {
				fillOpacity = polyStyleFillOpacity
			}
			style.FillOpacity = Float64(fillOpacity)
		}
		if outlineEl := polyStyleEl.SelectElement("outline"); outlineEl != nil {
			strokeOpacity := 0.0
			if strings.TrimSpace(outlineEl.Text()) == "1" {
				strokeOpacity = polyStyleOutlineOpacity
			}
			style.StrokeOpacity = Float64(strokeOpacity)
		}
	}

	iconStyleEl := styleEl.SelectElement("IconStyle")
	if iconStyleEl != nil {
		if scale, ok := childFloat(iconStyleEl, "scale"); ok {
			style.IconScale = Float64(scale)
		}
		if iconEl := iconStyleEl.SelectElement("Icon"); iconEl != nil {
			style.IconURL = childText(iconEl, "href")
		}
	}

	return style
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}

	return strings.TrimSpace(child.Text())
}

func childFloat(el *etree.Element, tag string) (float64, bool) {
	text := childText(el, tag)
	if text == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
