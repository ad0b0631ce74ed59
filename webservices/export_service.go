package webservices

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/ownkmldal"
	"github.com/jamesrr39/ownkml/ownkmldal/geojsonexport"
	"github.com/jamesrr39/ownkml/ownkmldal/kmlexport"
	"github.com/jamesrr39/semaphore"
)

type ExportFormat string

const (
	ExportFormatGeoJSON ExportFormat = "geojson"
	ExportFormatKML     ExportFormat = "kml"
)

var exportFormats = []ExportFormat{ExportFormatGeoJSON, ExportFormatKML}

var exportContentTypes = map[ExportFormat]string{
	ExportFormatGeoJSON: "application/geo+json",
	ExportFormatKML:     "application/vnd.google-earth.kml+xml",
}

type ExportService struct {
	logger *logpkg.Logger
	loader *ownkmldal.Loader
	sema   *semaphore.Semaphore
	chi.Router
}

func NewExportService(logger *logpkg.Logger, loader *ownkmldal.Loader) *ExportService {
	es := &ExportService{logger, loader, semaphore.NewSemaphore(4), chi.NewRouter()}

	es.Post("/", es.handlePost)

	return es
}

func (es *ExportService) handlePost(w http.ResponseWriter, r *http.Request) {
	format := ExportFormat(r.URL.Query().Get("format"))
	contentType, ok := exportContentTypes[format]
	if !ok {
		errorsx.HTTPError(w, es.logger, errorsx.Errorf("unknown export format: %q", format), http.StatusBadRequest)
		return
	}

	es.sema.Add()
	defer es.sema.Done()

	span := tracing.StartSpan(r.Context(), "parse uploaded file")
	loadedFile, statusCode, err := readUploadedFile(r, es.loader)
	span.End(r.Context())
	if err != nil {
		errorsx.HTTPError(w, es.logger, errorsx.Wrap(err), statusCode)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(loadedFile.FileInfo.Name, format)))

	span = tracing.StartSpan(r.Context(), "write export")
	defer span.End(r.Context())

	switch format {
	case ExportFormatGeoJSON:
		err = geojsonexport.Write(w, loadedFile.Document)
	case ExportFormatKML:
		err = kmlexport.Write(w, loadedFile.Document)
	}
	if err != nil {
		// headers are already sent
		es.logger.Error("failed to write %s export of %q. Error: %s", format, loadedFile.FileInfo.Name, err.Error())
		return
	}
}

// exportFileName swaps the extension of the uploaded file name for the export format's
func exportFileName(uploadedFileName string, format ExportFormat) string {
	baseName := strings.TrimSuffix(path.Base(uploadedFileName), path.Ext(uploadedFileName))
	if baseName == "" || baseName == "." || baseName == "/" {
		baseName = "export"
	}

	return baseName + "." + string(format)
}
