package ownkmlsqldb

import (
	"testing"
	"time"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRows(t *testing.T) {
	point := ownkml.NewPointElement("Summit", ownkml.Coordinate{Lon: -3.2, Lat: 55.9})
	point.ExtendedData = map[string]string{"height": "250m", "grade": "easy"}

	polygon := ownkml.NewPolygonElement("Field", [][]ownkml.Coordinate{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}}})
	polygon.Metadata = &ownkml.Metadata{AreaKm2: styling.Float64(6181.8)}
	polygon.Style = styling.SalvageStyle

	noCoordinates := ownkml.NewLineStringElement("Empty", nil)

	document := &ownkml.Document{
		Name:      "Places",
		Elements:  []*ownkml.Element{point, noCoordinates, polygon},
		ParseMode: ownkml.ParseModeSalvage,
	}

	exportedAt := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	fileRow, elementRows, dataRows := NewRows("places.kml", 1024, document, exportedAt)

	assert.NotEmpty(t, fileRow.ID)
	assert.Equal(t, "places.kml", fileRow.FileName)
	assert.Equal(t, int64(1024), fileRow.SizeBytes)
	assert.Equal(t, "Places", fileRow.DocumentName)
	assert.Equal(t, "salvage", fileRow.ParseMode)
	assert.Equal(t, exportedAt, fileRow.ExportedAt)

	require.Len(t, elementRows, 2)

	assert.Equal(t, point.ID, elementRows[0].ID)
	assert.Equal(t, fileRow.ID, elementRows[0].FileID)
	assert.Equal(t, 0, elementRows[0].Position)
	assert.Equal(t, "POINT(-3.2 55.9)", elementRows[0].GeometryWKT)
	assert.Nil(t, elementRows[0].LineColor)

	assert.Equal(t, 2, elementRows[1].Position)
	assert.Equal(t, "POLYGON((0 0,1 0,1 1,0 0))", elementRows[1].GeometryWKT)
	assert.Equal(t, 1.0, elementRows[1].MaxLat)
	require.NotNil(t, elementRows[1].FillColor)
	assert.Equal(t, styling.SALVAGE_FILL_COLOR, *elementRows[1].FillColor)
	require.NotNil(t, elementRows[1].AreaKm2)
	assert.Equal(t, 6181.8, *elementRows[1].AreaKm2)

	assert.Equal(t, []ElementDataRow{
		{ElementID: point.ID, Key: "grade", Value: "easy"},
		{ElementID: point.ID, Key: "height", Value: "250m"},
	}, dataRows)
}
