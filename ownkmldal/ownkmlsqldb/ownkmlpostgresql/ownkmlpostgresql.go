package ownkmlpostgresql

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/ownkmldal/ownkmlsqldb"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const postgresqlSchema = `
CREATE TABLE IF NOT EXISTS kml_files (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	document_name TEXT NOT NULL,
	parse_mode TEXT NOT NULL, -- see ownkml.ParseMode
	exported_at TIMESTAMP WITHOUT TIME ZONE NOT NULL
);

CREATE TABLE IF NOT EXISTS kml_elements (
	id TEXT PRIMARY KEY,
	file_id TEXT NOT NULL REFERENCES kml_files(id),
	position INTEGER NOT NULL,
	kind TEXT NOT NULL, -- see ownkml.ElementKind
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	geometry_wkt TEXT NOT NULL,
	min_lon DOUBLE PRECISION NOT NULL,
	min_lat DOUBLE PRECISION NOT NULL,
	max_lon DOUBLE PRECISION NOT NULL,
	max_lat DOUBLE PRECISION NOT NULL,
	line_color TEXT,
	fill_color TEXT,
	length_km DOUBLE PRECISION,
	area_km2 DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS kml_elements_file_id_idx ON kml_elements (file_id);
CREATE INDEX IF NOT EXISTS kml_elements_bounds_idx ON kml_elements (min_lat, min_lon, max_lat, max_lon);

CREATE TABLE IF NOT EXISTS kml_element_data (
	element_id TEXT NOT NULL REFERENCES kml_elements(id),
	key TEXT NOT NULL,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS kml_element_data_element_id_idx ON kml_element_data (element_id);
`

func Open(connStr string) (*sqlx.DB, errorsx.Error) {
	db, err := sqlx.Open("postgres", "postgresql://"+connStr)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	_, err = db.Exec(postgresqlSchema)
	if err != nil {
		db.Close()
		return nil, errorsx.Wrap(err)
	}

	return db, nil
}

// Export writes the document to the database at connStr (without the "postgresql://" prefix), creating the tables if needed
func Export(connStr, fileName string, sizeBytes int64, document *ownkml.Document) (string, errorsx.Error) {
	db, err := Open(connStr)
	if err != nil {
		return "", errorsx.Wrap(err)
	}
	defer db.Close()

	exporter, err := ownkmlsqldb.NewExporter(db)
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	fileID, err := exporter.ExportDocument(fileName, sizeBytes, document)
	if err != nil {
		rollbackErr := exporter.Rollback()
		if rollbackErr != nil {
			return "", errorsx.Wrap(err, "rollbackError", rollbackErr.Error())
		}
		return "", errorsx.Wrap(err)
	}

	err = exporter.Commit()
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	return fileID, nil
}
