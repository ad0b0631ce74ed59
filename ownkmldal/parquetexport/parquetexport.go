package parquetexport

import (
	_ "embed"
	"encoding/json"
	"runtime"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	parquetwriter "github.com/xitongsys/parquet-go/writer"
)

// JSON writer example: https://github.com/xitongsys/parquet-go/blob/62cf52a8dad4f8b729e6c38809f091cd134c3749/example/json_write.go

//go:embed elements_schema.json
var elementsSchema string

const DefaultRowGroupSize = 128 * 1024 * 1024 //128M

// Row is one element, as written to the parquet file
type Row struct {
	ID               string   `json:"id"`
	Kind             string   `json:"kind"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	GeometryWKT      string   `json:"geometry_wkt"`
	MinLon           float64  `json:"min_lon"`
	MinLat           float64  `json:"min_lat"`
	MaxLon           float64  `json:"max_lon"`
	MaxLat           float64  `json:"max_lat"`
	LineColor        *string  `json:"line_color"`
	FillColor        *string  `json:"fill_color"`
	LengthKm         *float64 `json:"length_km"`
	AreaKm2          *float64 `json:"area_km2"`
	ExtendedDataJSON *string  `json:"extended_data_json"`
}

func NewRow(element *ownkml.Element) (*Row, errorsx.Error) {
	bounds, ok := element.Bounds()
	if !ok {
		return nil, errorsx.Errorf("element %q has no coordinates", element.ID)
	}

	row := &Row{
		ID:          element.ID,
		Kind:        string(element.Kind),
		Name:        element.Name,
		Description: element.Description,
		GeometryWKT: wkt.MarshalString(element.Geometry()),
		MinLon:      bounds.MinLon,
		MinLat:      bounds.MinLat,
		MaxLon:      bounds.MaxLon,
		MaxLat:      bounds.MaxLat,
	}

	if element.Style != nil {
		if element.Style.LineColor != "" {
			row.LineColor = &element.Style.LineColor
		}
		if element.Style.FillColor != "" {
			row.FillColor = &element.Style.FillColor
		}
	}

	if element.Metadata != nil {
		row.LengthKm = element.Metadata.LengthKm
		row.AreaKm2 = element.Metadata.AreaKm2
	}

	if len(element.ExtendedData) != 0 {
		b, err := json.Marshal(element.ExtendedData)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		extendedDataJSON := string(b)
		row.ExtendedDataJSON = &extendedDataJSON
	}

	return row, nil
}

// WriteFile writes one row per element to a new parquet file at filePath
func WriteFile(filePath string, document *ownkml.Document, rowGroupSize int64) errorsx.Error {
	f, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return errorsx.Wrap(err, "filepath", filePath)
	}
	defer f.Close()

	writer, err := parquetwriter.NewJSONWriter(elementsSchema, f, int64(runtime.NumCPU()))
	if err != nil {
		return errorsx.Wrap(err)
	}
	writer.RowGroupSize = rowGroupSize
	writer.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, element := range document.Elements {
		row, rowErr := NewRow(element)
		if rowErr != nil {
			return errorsx.Wrap(rowErr)
		}

		j, err := json.Marshal(row)
		if err != nil {
			return errorsx.Wrap(err)
		}

		err = writer.Write(string(j))
		if err != nil {
			return errorsx.Wrap(err, "elementID", element.ID)
		}
	}

	err = writer.WriteStop()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
