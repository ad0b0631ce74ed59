package ownkmldal

import (
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/kmlparser"
)

type Loader struct {
	logger *logpkg.Logger
	fs     gofs.Fs
	parser *kmlparser.Parser
}

func NewLoader(logger *logpkg.Logger, fs gofs.Fs, parser *kmlparser.Parser) *Loader {
	return &Loader{logger, fs, parser}
}

// Load reads and parses the file at filePath. KMZ files are recognised by their extension.
func (l *Loader) Load(filePath string) (*LoadedFile, errorsx.Error) {
	fileInfo, err := l.fs.Stat(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "file", filePath)
	}

	if fileInfo.IsDir() {
		return nil, errorsx.Errorf("%q is a directory", filePath)
	}

	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "file", filePath)
	}

	return l.LoadBytes(FileInfo{Name: filepath.Base(filePath), Size: fileInfo.Size()}, data)
}

// LoadBytes parses file contents that have already been read, for example from an upload
func (l *Loader) LoadBytes(fileInfo FileInfo, data []byte) (*LoadedFile, errorsx.Error) {
	loadedFile := &LoadedFile{
		FileInfo: fileInfo,
		Kind:     FileKindFromName(fileInfo.Name),
	}

	l.logger.Debug("loading %q as %s (%d bytes)", fileInfo.Name, loadedFile.Kind, fileInfo.Size)

	switch loadedFile.Kind {
	case FileKindKMZ:
		document, images, err := l.parser.ParseKMZ(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "file", fileInfo.Name)
		}
		loadedFile.Document = document
		loadedFile.Images = images
	default:
		document, err := l.parser.ParseKML(kmlparser.DecodeText(data))
		if err != nil {
			return nil, errorsx.Wrap(err, "file", fileInfo.Name)
		}
		loadedFile.Document = document
	}

	return loadedFile, nil
}
