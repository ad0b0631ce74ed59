package ownkmldal

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/kmlparser"
	"github.com/jamesrr39/ownkml/kmzarchive"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointKML = `<kml><Document><name>Walks</name><Placemark><name>Start</name><Point><coordinates>10.75,59.91</coordinates></Point></Placemark></Document></kml>`

func newTestLoader(t *testing.T) (*Loader, mockfs.MockFs) {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelError)
	fs := mockfs.NewMockFs()

	return NewLoader(logger, fs, kmlparser.NewParser(logger)), fs
}

func zipBytes(t *testing.T, name string, content []byte) []byte {
	buf := bytes.NewBuffer(nil)
	zipWriter := zip.NewWriter(buf)

	writer, err := zipWriter.Create(name)
	require.NoError(t, err)

	_, err = writer.Write(content)
	require.NoError(t, err)

	err = zipWriter.Close()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestLoader_Load(t *testing.T) {
	loader, fs := newTestLoader(t)

	err := fs.WriteFile("/data/walks.kml", []byte(pointKML), 0644)
	require.NoError(t, err)

	err = fs.WriteFile("/data/walks.KMZ", zipBytes(t, "doc.kml", []byte(pointKML)), 0644)
	require.NoError(t, err)

	err = fs.WriteFile("/data/empty.kmz", zipBytes(t, "readme.txt", []byte("hello")), 0644)
	require.NoError(t, err)

	t.Run("kml", func(t *testing.T) {
		loadedFile, err := loader.Load("/data/walks.kml")
		require.NoError(t, err)

		assert.Equal(t, FileInfo{Name: "walks.kml", Size: int64(len(pointKML))}, loadedFile.FileInfo)
		assert.Equal(t, FileKindKML, loadedFile.Kind)
		assert.Equal(t, "Walks", loadedFile.Document.Name)
		require.Len(t, loadedFile.Document.Elements, 1)
		assert.Equal(t, ownkml.ElementKindPoint, loadedFile.Document.Elements[0].Kind)
		assert.Nil(t, loadedFile.Images)
	})

	t.Run("kmz", func(t *testing.T) {
		loadedFile, err := loader.Load("/data/walks.KMZ")
		require.NoError(t, err)

		assert.Equal(t, FileKindKMZ, loadedFile.Kind)
		assert.Equal(t, "Walks", loadedFile.Document.Name)
		assert.NotNil(t, loadedFile.Images)
	})

	t.Run("kmz without a kml document", func(t *testing.T) {
		_, err := loader.Load("/data/empty.kmz")
		require.Error(t, err)
		assert.Equal(t, kmzarchive.ErrNoKMLFound, errorsx.Cause(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load("/data/missing.kml")
		require.Error(t, err)
	})
}

func TestLoader_LoadBytes_emptyKML(t *testing.T) {
	loader, _ := newTestLoader(t)

	_, err := loader.LoadBytes(FileInfo{Name: "empty.kml"}, []byte("  "))
	require.Error(t, err)
	assert.Equal(t, kmlparser.ErrInvalidInput, errorsx.Cause(err))
}
