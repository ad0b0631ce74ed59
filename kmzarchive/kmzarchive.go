package kmzarchive

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jamesrr39/goutil/dirtraversal"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/klauspost/compress/zip"
)

const DefaultDocumentName = "doc.kml"

var (
	ErrInvalidArchive = errors.New("not a valid KMZ (zip) archive")
	ErrNoKMLFound     = errors.New("no KML document found in KMZ archive")
)

// used when the content can't be sniffed as an image
var imageMimeTypesByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// Archive is the unpacked contents of a KMZ file
type Archive struct {
	DocumentName string
	Document     []byte
	Images       map[string]string // archive entry name -> data URI
}

// Unpack reads a KMZ archive. The KML document is the "doc.kml" entry, or if there isn't one, the first ".kml" entry.
// Image entries are inlined as data URIs; image entries that can't be read are left out.
func Unpack(data []byte, logger *logpkg.Logger) (*Archive, errorsx.Error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errorsx.Wrap(ErrInvalidArchive, "zipError", err.Error())
	}

	documentFile := findDocumentFile(zipReader.File)
	if documentFile == nil {
		return nil, errorsx.Wrap(ErrNoKMLFound)
	}

	document, err := readZipFile(documentFile)
	if err != nil {
		return nil, errorsx.Wrap(err, "kmzEntry", documentFile.Name)
	}

	archive := &Archive{
		DocumentName: documentFile.Name,
		Document:     document,
		Images:       make(map[string]string),
	}

	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		extension := strings.ToLower(path.Ext(file.Name))
		_, isImage := imageMimeTypesByExtension[extension]
		if !isImage {
			continue
		}

		if dirtraversal.IsTryingToTraverseUp(file.Name) {
			logger.Warn("skipping KMZ image entry %q: path traverses outside of the archive", file.Name)
			continue
		}

		dataURI, err := imageDataURI(file, extension)
		if err != nil {
			logger.Warn("skipping KMZ image entry %q: %s", file.Name, err.Error())
			continue
		}

		archive.Images[file.Name] = dataURI
	}

	logger.Debug("unpacked KMZ archive. Document entry: %q, images: %d", archive.DocumentName, len(archive.Images))

	return archive, nil
}

func findDocumentFile(files []*zip.File) *zip.File {
	for _, file := range files {
		if file.Name == DefaultDocumentName {
			return file
		}
	}

	for _, file := range files {
		if file.FileInfo().IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(file.Name), ".kml") {
			return file
		}
	}

	return nil
}

func imageDataURI(file *zip.File, extension string) (string, errorsx.Error) {
	b, err := readZipFile(file)
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	mimeType := mimetype.Detect(b).String()
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = imageMimeTypesByExtension[extension]
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func readZipFile(file *zip.File) ([]byte, errorsx.Error) {
	reader, err := file.Open()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	defer reader.Close()

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return b, nil
}
