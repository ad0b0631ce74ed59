package ownkmlpostgresql

import (
	"os"
	"testing"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// set to a connection string without the scheme, e.g. "user:password@localhost/ownkml_test?sslmode=disable"
const testConnStrEnvVar = "OWNKML_TEST_POSTGRESQL"

func TestExport(t *testing.T) {
	connStr := os.Getenv(testConnStrEnvVar)
	if connStr == "" {
		t.Skipf("%s not set", testConnStrEnvVar)
	}

	point := ownkml.NewPointElement("Summit", ownkml.Coordinate{Lon: -3.2, Lat: 55.9})
	point.ExtendedData = map[string]string{"height": "250m"}

	document := &ownkml.Document{
		Elements:  []*ownkml.Element{point},
		ParseMode: ownkml.ParseModeStructured,
	}

	fileID, err := Export(connStr, "places.kml", 100, document)
	require.NoError(t, err)

	db, err := Open(connStr)
	require.NoError(t, err)
	defer db.Close()

	var names []string
	dbErr := db.Select(&names, "SELECT name FROM kml_elements WHERE file_id = $1", fileID)
	require.NoError(t, dbErr)
	assert.Equal(t, []string{"Summit"}, names)
}
