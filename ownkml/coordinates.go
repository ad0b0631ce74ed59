package ownkml

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRegexp           = regexp.MustCompile(`\s+`)
	whitespaceAfterCommaRegexp = regexp.MustCompile(`,\s+`)
)

// ParseCoordinates tokenizes the text of a KML <coordinates> element.
// It never fails: a tuple that can't be read becomes (0,0,0) and empty text gives an empty slice.
func ParseCoordinates(text string) []Coordinate {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Coordinate{}
	}

	text = whitespaceRegexp.ReplaceAllString(text, " ")
	text = whitespaceAfterCommaRegexp.ReplaceAllString(text, ",")

	tokens := strings.Split(text, " ")
	coordinates := make([]Coordinate, 0, len(tokens))
	for _, token := range tokens {
		coordinates = append(coordinates, parseCoordinateTuple(token))
	}

	return coordinates
}

func parseCoordinateTuple(token string) Coordinate {
	fields := strings.Split(token, ",")
	if len(fields) < 2 {
		return Coordinate{}
	}
	if len(fields) > 3 {
		// fields after the altitude are ignored
		fields = fields[:3]
	}

	var values [3]float64
	for i, field := range fields {
		if i == 2 && field == "" {
			// trailing comma, no altitude given
			break
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Coordinate{}
		}
		values[i] = value
	}

	return Coordinate{
		Lon: values[0],
		Lat: values[1],
		Alt: values[2],
	}
}
