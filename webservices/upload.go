package webservices

import (
	"io"
	"io/ioutil"
	"net/http"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/ownkml/ownkmldal"
)

const (
	MAX_UPLOAD_BYTES    = 64 * 1024 * 1024
	UploadFormFieldName = "file"
	maxMultipartMemory  = 32 * 1024 * 1024
)

// readUploadedFile reads and parses the KML/KMZ file in the "file" field of a multipart form
func readUploadedFile(r *http.Request, loader *ownkmldal.Loader) (*ownkmldal.LoadedFile, int, errorsx.Error) {
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		return nil, http.StatusBadRequest, errorsx.Wrap(err)
	}

	multipartFile, fileHeader, err := r.FormFile(UploadFormFieldName)
	if err != nil {
		return nil, http.StatusBadRequest, errorsx.Wrap(err, "formField", UploadFormFieldName)
	}
	defer multipartFile.Close()

	data, err := ioutil.ReadAll(io.LimitReader(multipartFile, MAX_UPLOAD_BYTES+1))
	if err != nil {
		return nil, http.StatusBadRequest, errorsx.Wrap(err)
	}

	if len(data) > MAX_UPLOAD_BYTES {
		return nil, http.StatusRequestEntityTooLarge, errorsx.Errorf("file %q is too large. Maximum size: %s", fileHeader.Filename, humanise.HumaniseBytes(MAX_UPLOAD_BYTES))
	}

	loadedFile, loadErr := loader.LoadBytes(ownkmldal.FileInfo{Name: fileHeader.Filename, Size: int64(len(data))}, data)
	if loadErr != nil {
		return nil, http.StatusUnprocessableEntity, errorsx.Wrap(loadErr)
	}

	return loadedFile, http.StatusOK, nil
}
