package webservices

import (
	"image/png"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/ownkmldal"
	"github.com/jamesrr39/ownkml/ownkmlrenderer"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
)

const MAX_PREVIEW_SIDE_PX = 4096

type PreviewService struct {
	logger        *logpkg.Logger
	loader        *ownkmldal.Loader
	renderer      *ownkmlrenderer.RasterRenderer
	sema          *semaphore.Semaphore
	shouldProfile bool
	chi.Router
}

func NewPreviewService(logger *logpkg.Logger, loader *ownkmldal.Loader, renderer *ownkmlrenderer.RasterRenderer, shouldProfile bool) *PreviewService {
	ps := &PreviewService{logger, loader, renderer, semaphore.NewSemaphore(4), shouldProfile, chi.NewRouter()}

	ps.Post("/", ps.handlePost)

	return ps
}

// handlePost renders the uploaded file to a PNG.
// Query parameters (all optional): "width", "height", "bounds" as "(S,W,N,E)" and "labels" ("false" to turn them off).
func (ps *PreviewService) handlePost(w http.ResponseWriter, r *http.Request) {
	if ps.shouldProfile {
		defer profile.Start().Stop()
	}

	options, err := previewOptionsFromQuery(r)
	if err != nil {
		errorsx.HTTPError(w, ps.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
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

	img, err := ps.renderer.RenderDocument(r.Context(), loadedFile.Document, options)
	if err != nil {
		errorsx.HTTPError(w, ps.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	encodeErr := png.Encode(w, img)
	if encodeErr != nil {
		switch encodeErr.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, ps.logger, errorsx.Wrap(encodeErr), http.StatusInternalServerError)
		}
		return
	}
}

func previewOptionsFromQuery(r *http.Request) (ownkmlrenderer.Options, errorsx.Error) {
	options := ownkmlrenderer.DefaultOptions()
	query := r.URL.Query()

	for _, sizeParam := range []struct {
		Name  string
		Value *int
	}{
		{"width", &options.Width},
		{"height", &options.Height},
	} {
		str := query.Get(sizeParam.Name)
		if str == "" {
			continue
		}

		size, err := strconv.Atoi(str)
		if err != nil {
			return options, errorsx.Wrap(err, "param", sizeParam.Name)
		}

		if size <= 0 || size > MAX_PREVIEW_SIDE_PX {
			return options, errorsx.Errorf("%s must be between 1 and %d, but was %d", sizeParam.Name, MAX_PREVIEW_SIDE_PX, size)
		}

		*sizeParam.Value = size
	}

	boundsStr := query.Get("bounds")
	if boundsStr != "" {
		bounds, err := ownkml.ParseBoundsQuery(boundsStr)
		if err != nil {
			return options, errorsx.Wrap(err)
		}
		options.Bounds = &bounds
	}

	if query.Get("labels") == "false" {
		options.ShowLabels = false
	}

	return options, nil
}
