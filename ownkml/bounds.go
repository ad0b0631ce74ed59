package ownkml

import (
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/osm"
)

// ParseBoundsFlag parses a command line bounds flag in the form "W,N,E,S". An empty string means the whole world.
func ParseBoundsFlag(boundsStr string) (osm.Bounds, errorsx.Error) {
	if strings.TrimSpace(boundsStr) == "" {
		return GetWholeWorldBounds(), nil
	}

	bounds := osm.Bounds{}

	fragments := strings.Split(boundsStr, ",")
	if len(fragments) != 4 {
		return bounds, errorsx.Errorf("expected 4 (or 0) bounds, but found %d", len(fragments))
	}

	for idx, fragment := range fragments {
		boundFloat, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return bounds, errorsx.Wrap(err, "bounds", boundsStr)
		}
		switch idx {
		case 0:
			bounds.MinLon = boundFloat
		case 1:
			bounds.MaxLat = boundFloat
		case 2:
			bounds.MaxLon = boundFloat
		case 3:
			bounds.MinLat = boundFloat
		}
	}

	return bounds, nil
}

// ParseBoundsQuery parses a bounds URL parameter
// (S,W,N,E)
// (52.533251,-1.394072,52.800548,-0.898208)
func ParseBoundsQuery(boundsString string) (osm.Bounds, errorsx.Error) {
	bounds := osm.Bounds{}

	withoutBrackets := strings.TrimPrefix(strings.TrimSuffix(boundsString, ")"), "(")
	fragments := strings.Split(withoutBrackets, ",")
	if len(fragments) != 4 {
		return bounds, errorsx.Errorf("expected 4 bounds, but got %d. A bounds URL parameter should be in the format 'bounds=(S,W,N,E)'", len(fragments))
	}

	for index, fragment := range fragments {
		coordinate, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return bounds, errorsx.Wrap(err)
		}

		switch index {
		case 0:
			bounds.MinLat = coordinate
		case 1:
			bounds.MinLon = coordinate
		case 2:
			bounds.MaxLat = coordinate
		case 3:
			bounds.MaxLon = coordinate
		}
	}

	return bounds, nil
}
