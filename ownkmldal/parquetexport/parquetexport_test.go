package parquetexport

import (
	"path/filepath"
	"testing"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	parquetreader "github.com/xitongsys/parquet-go/reader"
)

func testDocument() *ownkml.Document {
	point := ownkml.NewPointElement("Summit", ownkml.Coordinate{Lon: -3.2, Lat: 55.9, Alt: 250})
	point.ExtendedData = map[string]string{"height": "250m"}

	line := ownkml.NewLineStringElement("Path", []ownkml.Coordinate{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 1}})
	line.Metadata = &ownkml.Metadata{LengthKm: styling.Float64(248.6)}
	line.Style = &styling.Style{LineColor: "#ff0000"}

	return &ownkml.Document{
		Elements:  []*ownkml.Element{point, line},
		ParseMode: ownkml.ParseModeStructured,
	}
}

func TestNewRow(t *testing.T) {
	document := testDocument()

	pointRow, err := NewRow(document.Elements[0])
	require.NoError(t, err)
	assert.Equal(t, "Point", pointRow.Kind)
	assert.Equal(t, "POINT(-3.2 55.9)", pointRow.GeometryWKT)
	assert.Equal(t, -3.2, pointRow.MinLon)
	assert.Equal(t, 55.9, pointRow.MaxLat)
	assert.Nil(t, pointRow.LineColor)
	assert.Nil(t, pointRow.LengthKm)
	require.NotNil(t, pointRow.ExtendedDataJSON)
	assert.Equal(t, `{"height":"250m"}`, *pointRow.ExtendedDataJSON)

	lineRow, err := NewRow(document.Elements[1])
	require.NoError(t, err)
	assert.Equal(t, "LINESTRING(0 0,2 1)", lineRow.GeometryWKT)
	assert.Equal(t, 0.0, lineRow.MinLon)
	assert.Equal(t, 2.0, lineRow.MaxLon)
	require.NotNil(t, lineRow.LineColor)
	assert.Equal(t, "#ff0000", *lineRow.LineColor)
	require.NotNil(t, lineRow.LengthKm)
	assert.Equal(t, 248.6, *lineRow.LengthKm)
	assert.Nil(t, lineRow.ExtendedDataJSON)
}

func TestWriteFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "elements.parquet")

	err := WriteFile(filePath, testDocument(), DefaultRowGroupSize)
	require.NoError(t, err)

	fileReader, openErr := local.NewLocalFileReader(filePath)
	require.NoError(t, openErr)
	defer fileReader.Close()

	pr, openErr := parquetreader.NewParquetReader(fileReader, nil, 1)
	require.NoError(t, openErr)
	defer pr.ReadStop()

	assert.Equal(t, int64(2), pr.GetNumRows())
}
