package ownkmldal

import (
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
)

type FileKind string

const (
	FileKindKML FileKind = "kml"
	FileKindKMZ FileKind = "kmz"
)

// FileKindFromName classifies a file by its extension. Anything that isn't ".kmz" (case-insensitive) is read as KML.
func FileKindFromName(name string) FileKind {
	if strings.HasSuffix(strings.ToLower(name), ".kmz") {
		return FileKindKMZ
	}

	return FileKindKML
}

// FileInfo is for display only
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type LoadedFile struct {
	FileInfo FileInfo          `json:"fileInfo"`
	Kind     FileKind          `json:"kind"`
	Document *ownkml.Document  `json:"document"`
	Images   map[string]string `json:"images,omitempty"`
}

type ExportTargetType string

const (
	ExportTargetTypeGeoJSON    ExportTargetType = "geojson"
	ExportTargetTypeKML        ExportTargetType = "kml"
	ExportTargetTypeParquet    ExportTargetType = "parquet"
	ExportTargetTypePostgresql ExportTargetType = "postgresql"
)

var ExportTargetTypes = []ExportTargetType{
	ExportTargetTypeGeoJSON,
	ExportTargetTypeKML,
	ExportTargetTypeParquet,
	ExportTargetTypePostgresql,
}

type ExportTarget struct {
	Type           ExportTargetType
	ConnectionPath string
}

const ConnectionPathSeparator = "://"

func ParseExportTarget(str string) (ExportTarget, errorsx.Error) {
	idx := strings.Index(str, ConnectionPathSeparator)
	if idx < 0 {
		return ExportTarget{}, errorsx.Errorf("couldn't find connection path separator %q in export target", ConnectionPathSeparator)
	}

	target := ExportTarget{
		Type:           ExportTargetType(str[:idx]),
		ConnectionPath: str[idx+len(ConnectionPathSeparator):],
	}

	if !isKnownExportTargetType(target.Type) {
		return ExportTarget{}, errorsx.Errorf("unknown export target type: %q", target.Type)
	}

	if target.ConnectionPath == "" {
		return ExportTarget{}, errorsx.Errorf("no path or connection string given for export target type %q", target.Type)
	}

	return target, nil
}

func isKnownExportTargetType(targetType ExportTargetType) bool {
	for _, knownType := range ExportTargetTypes {
		if knownType == targetType {
			return true
		}
	}

	return false
}
