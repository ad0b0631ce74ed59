package ownkml

import (
	"fmt"
	"strings"

	"github.com/jamesrr39/goutil/humanise"
)

// Summarise creates a plain-text report of a parsed file, for display on the command line
func Summarise(fileName string, sizeBytes int64, document *Document) string {
	sb := new(strings.Builder)

	fmt.Fprintf(sb, "File: %s (%s)\n", fileName, humanise.HumaniseBytes(sizeBytes))
	if document.Name != "" {
		fmt.Fprintf(sb, "Document: %s\n", document.Name)
	}
	fmt.Fprintf(sb, "Parse mode: %s\n", document.ParseMode)

	counts := document.CountByKind()
	fmt.Fprintf(
		sb,
		"Elements: %d (points: %d, lines: %d, polygons: %d)\n",
		len(document.Elements),
		counts[ElementKindPoint],
		counts[ElementKindLineString],
		counts[ElementKindPolygon],
	)

	bounds, ok := document.Bounds()
	if ok {
		fmt.Fprintf(sb, "Bounds (W,N,E,S): %.6f,%.6f,%.6f,%.6f\n", bounds.MinLon, bounds.MaxLat, bounds.MaxLon, bounds.MinLat)
	}

	for _, element := range document.Elements {
		fmt.Fprintf(sb, "- [%s] %s", element.Kind, displayName(element))

		switch element.Kind {
		case ElementKindPoint:
			fmt.Fprintf(sb, " at %.6f,%.6f", element.Point.Lon, element.Point.Lat)
		case ElementKindLineString:
			fmt.Fprintf(sb, ": %d points", len(element.Line))
		case ElementKindPolygon:
			fmt.Fprintf(sb, ": %d rings", len(element.Rings))
		}

		if element.Metadata != nil {
			if element.Metadata.LengthKm != nil {
				fmt.Fprintf(sb, ", %.3f km", *element.Metadata.LengthKm)
			}
			if element.Metadata.AreaKm2 != nil {
				fmt.Fprintf(sb, ", %.3f km²", *element.Metadata.AreaKm2)
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func displayName(element *Element) string {
	if element.Name == "" {
		return "(unnamed)"
	}
	return element.Name
}
