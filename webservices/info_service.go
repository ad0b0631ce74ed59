package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/ownkmldal"
)

func NewInfoService(logger *logpkg.Logger) *InfoService {
	ws := &InfoService{logger, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger *logpkg.Logger
	chi.Router
}

type infoType struct {
	FileKinds      []ownkmldal.FileKind `json:"fileKinds"`
	ExportFormats  []ExportFormat       `json:"exportFormats"`
	ElementKinds   []ownkml.ElementKind `json:"elementKinds"`
	ParseModes     []ownkml.ParseMode   `json:"parseModes"`
	MaxUploadBytes int64                `json:"maxUploadBytes"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, infoType{
		FileKinds:      []ownkmldal.FileKind{ownkmldal.FileKindKML, ownkmldal.FileKindKMZ},
		ExportFormats:  exportFormats,
		ElementKinds:   []ownkml.ElementKind{ownkml.ElementKindPoint, ownkml.ElementKindLineString, ownkml.ElementKindPolygon},
		ParseModes:     []ownkml.ParseMode{ownkml.ParseModeStructured, ownkml.ParseModeSalvage},
		MaxUploadBytes: MAX_UPLOAD_BYTES,
	})
}
