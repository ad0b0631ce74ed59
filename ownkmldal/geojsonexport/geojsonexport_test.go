package geojsonexport

import (
	"bytes"
	"testing"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	point := ownkml.NewPointElement("Summit", ownkml.Coordinate{Lon: -3.2, Lat: 55.9, Alt: 250})
	point.ExtendedData = map[string]string{"height": "250m"}

	line := ownkml.NewLineStringElement("Path", []ownkml.Coordinate{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}})
	line.Metadata = &ownkml.Metadata{LengthKm: styling.Float64(111.19)}
	line.Style = &styling.Style{LineColor: "#ff0000", LineWidth: styling.Float64(3)}

	polygon := ownkml.NewPolygonElement("", [][]ownkml.Coordinate{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}}})
	polygon.Style = styling.SalvageStyle

	document := &ownkml.Document{
		Elements:  []*ownkml.Element{point, line, polygon},
		ParseMode: ownkml.ParseModeStructured,
	}

	buf := bytes.NewBuffer(nil)
	err := Write(buf, document)
	require.NoError(t, err)

	featureCollection, unmarshalErr := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, unmarshalErr)
	require.Len(t, featureCollection.Features, 3)

	pointFeature := featureCollection.Features[0]
	assert.Equal(t, point.ID, pointFeature.ID)
	assert.Equal(t, orb.Point{-3.2, 55.9}, pointFeature.Geometry)
	assert.Equal(t, "Summit", pointFeature.Properties[PropertyName])
	assert.Equal(t, "Point", pointFeature.Properties[PropertyKind])
	assert.Equal(t, map[string]interface{}{"height": "250m"}, pointFeature.Properties[PropertyExtendedData])
	assert.NotContains(t, pointFeature.Properties, PropertyStroke)

	lineFeature := featureCollection.Features[1]
	assert.Equal(t, orb.LineString{{0, 0}, {0, 1}}, lineFeature.Geometry)
	assert.Equal(t, "#ff0000", lineFeature.Properties[PropertyStroke])
	assert.Equal(t, 3.0, lineFeature.Properties[PropertyStrokeWidth])
	assert.Equal(t, 111.19, lineFeature.Properties[PropertyLengthKm])

	polygonFeature := featureCollection.Features[2]
	assert.Equal(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, polygonFeature.Geometry)
	assert.NotContains(t, polygonFeature.Properties, PropertyName)
	assert.Equal(t, styling.SALVAGE_FILL_COLOR, polygonFeature.Properties[PropertyFill])
	assert.Equal(t, styling.SALVAGE_FILL_OPACITY, polygonFeature.Properties[PropertyFillOpacity])
}
