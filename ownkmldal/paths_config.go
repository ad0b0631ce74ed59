package ownkmldal

import (
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
)

// PathsConfig holds the directories the desktop/server mode writes to
type PathsConfig struct {
	TraceDir   string
	ProfileDir string
}

func NewPathsConfig(rootDir string) *PathsConfig {
	return &PathsConfig{
		TraceDir:   filepath.Join(rootDir, "trace"),
		ProfileDir: filepath.Join(rootDir, "profile"),
	}
}

func (pc *PathsConfig) EnsurePaths(fs gofs.Fs) errorsx.Error {
	for _, dirPath := range []string{pc.TraceDir, pc.ProfileDir} {
		err := fs.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err, "dirPath", dirPath)
		}
	}

	return nil
}
