package ownkmlsqldb

import (
	"sort"
	"time"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jmoiron/sqlx"
	"github.com/paulmach/orb/encoding/wkt"
)

type FileRow struct {
	ID           string    `db:"id"`
	FileName     string    `db:"file_name"`
	SizeBytes    int64     `db:"size_bytes"`
	DocumentName string    `db:"document_name"`
	ParseMode    string    `db:"parse_mode"`
	ExportedAt   time.Time `db:"exported_at"`
}

type ElementRow struct {
	ID          string   `db:"id"`
	FileID      string   `db:"file_id"`
	Position    int      `db:"position"`
	Kind        string   `db:"kind"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	GeometryWKT string   `db:"geometry_wkt"`
	MinLon      float64  `db:"min_lon"`
	MinLat      float64  `db:"min_lat"`
	MaxLon      float64  `db:"max_lon"`
	MaxLat      float64  `db:"max_lat"`
	LineColor   *string  `db:"line_color"`
	FillColor   *string  `db:"fill_color"`
	LengthKm    *float64 `db:"length_km"`
	AreaKm2     *float64 `db:"area_km2"`
}

type ElementDataRow struct {
	ElementID string `db:"element_id"`
	Key       string `db:"key"`
	Value     string `db:"value"`
}

// NewRows flattens a document into rows. Elements without coordinates are left out.
func NewRows(fileName string, sizeBytes int64, document *ownkml.Document, exportedAt time.Time) (FileRow, []ElementRow, []ElementDataRow) {
	fileRow := FileRow{
		ID:           ownkml.NewElementID(),
		FileName:     fileName,
		SizeBytes:    sizeBytes,
		DocumentName: document.Name,
		ParseMode:    string(document.ParseMode),
		ExportedAt:   exportedAt,
	}

	var elementRows []ElementRow
	var dataRows []ElementDataRow
	for idx, element := range document.Elements {
		bounds, ok := element.Bounds()
		if !ok {
			continue
		}

		elementRow := ElementRow{
			ID:          element.ID,
			FileID:      fileRow.ID,
			Position:    idx,
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
				elementRow.LineColor = &element.Style.LineColor
			}
			if element.Style.FillColor != "" {
				elementRow.FillColor = &element.Style.FillColor
			}
		}

		if element.Metadata != nil {
			elementRow.LengthKm = element.Metadata.LengthKm
			elementRow.AreaKm2 = element.Metadata.AreaKm2
		}

		elementRows = append(elementRows, elementRow)

		var keys []string
		for key := range element.ExtendedData {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			dataRows = append(dataRows, ElementDataRow{
				ElementID: element.ID,
				Key:       key,
				Value:     element.ExtendedData[key],
			})
		}
	}

	return fileRow, elementRows, dataRows
}

const (
	insertFileSQL = `INSERT INTO kml_files (id, file_name, size_bytes, document_name, parse_mode, exported_at)
	VALUES (:id, :file_name, :size_bytes, :document_name, :parse_mode, :exported_at)`

	insertElementSQL = `INSERT INTO kml_elements (id, file_id, position, kind, name, description, geometry_wkt, min_lon, min_lat, max_lon, max_lat, line_color, fill_color, length_km, area_km2)
	VALUES (:id, :file_id, :position, :kind, :name, :description, :geometry_wkt, :min_lon, :min_lat, :max_lon, :max_lat, :line_color, :fill_color, :length_km, :area_km2)`

	insertElementDataSQL = `INSERT INTO kml_element_data (element_id, key, value) VALUES (:element_id, :key, :value)`
)

// Exporter writes documents into an SQL database, inside a single transaction
type Exporter struct {
	tx *sqlx.Tx
}

func NewExporter(db *sqlx.DB) (*Exporter, errorsx.Error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &Exporter{tx}, nil
}

// ExportDocument inserts the document and returns the generated file ID
func (e *Exporter) ExportDocument(fileName string, sizeBytes int64, document *ownkml.Document) (string, errorsx.Error) {
	fileRow, elementRows, dataRows := NewRows(fileName, sizeBytes, document, time.Now().UTC())

	_, err := e.tx.NamedExec(insertFileSQL, fileRow)
	if err != nil {
		return "", errorsx.Wrap(err, "file", fileName)
	}

	for _, elementRow := range elementRows {
		_, err = e.tx.NamedExec(insertElementSQL, elementRow)
		if err != nil {
			return "", errorsx.Wrap(err, "elementID", elementRow.ID)
		}
	}

	for _, dataRow := range dataRows {
		_, err = e.tx.NamedExec(insertElementDataSQL, dataRow)
		if err != nil {
			return "", errorsx.Wrap(err, "elementID", dataRow.ElementID, "key", dataRow.Key)
		}
	}

	return fileRow.ID, nil
}

func (e *Exporter) Commit() errorsx.Error {
	err := e.tx.Commit()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func (e *Exporter) Rollback() errorsx.Error {
	err := e.tx.Rollback()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
