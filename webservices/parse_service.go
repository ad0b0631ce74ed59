package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/ownkmldal"
	"github.com/jamesrr39/semaphore"
)

type ParseService struct {
	logger *logpkg.Logger
	loader *ownkmldal.Loader
	sema   *semaphore.Semaphore
	chi.Router
}

func NewParseService(logger *logpkg.Logger, loader *ownkmldal.Loader) *ParseService {
	ps := &ParseService{logger, loader, semaphore.NewSemaphore(4), chi.NewRouter()}

	ps.Post("/", ps.handlePost)

	return ps
}

type parseResponseType struct {
	*ownkmldal.LoadedFile
	Summary string `json:"summary"`
}

// handlePost parses the uploaded file. An optional "bounds" query parameter, "(S,W,N,E)", limits the returned elements.
func (ps *ParseService) handlePost(w http.ResponseWriter, r *http.Request) {
	var err errorsx.Error

	bounds := ownkml.GetWholeWorldBounds()
	boundsStr := r.URL.Query().Get("bounds")
	if boundsStr != "" {
		bounds, err = ownkml.ParseBoundsQuery(boundsStr)
		if err != nil {
			errorsx.HTTPError(w, ps.logger, errorsx.Wrap(err), http.StatusBadRequest)
			return
		}
	}

	ps.sema.Add()
	defer ps.sema.Done()

	span := tracing.StartSpan(r.Context(), "parse uploaded file")
	loadedFile, statusCode, err := readUploadedFile(r, ps.loader)
	span.End(r.Context())
	if err != nil {
		errorsx.HTTPError(w, ps.logger, errorsx.Wrap(err), statusCode)
		return
	}

	filteredDocument := *loadedFile.Document
	filteredDocument.Elements = loadedFile.Document.ElementsInBounds(bounds)
	if filteredDocument.Elements == nil {
		filteredDocument.Elements = []*ownkml.Element{}
	}
	loadedFile.Document = &filteredDocument

	render.JSON(w, r, parseResponseType{
		LoadedFile: loadedFile,
		Summary:    ownkml.Summarise(loadedFile.FileInfo.Name, loadedFile.FileInfo.Size, loadedFile.Document),
	})
}
