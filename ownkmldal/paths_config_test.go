package ownkmldal

import (
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsConfig_EnsurePaths(t *testing.T) {
	fs := mockfs.NewMockFs()
	pathsConfig := NewPathsConfig("/home/user/.local/share/ownkml")

	assert.Equal(t, "/home/user/.local/share/ownkml/trace", pathsConfig.TraceDir)

	err := pathsConfig.EnsurePaths(fs)
	require.NoError(t, err)

	for _, dirPath := range []string{pathsConfig.TraceDir, pathsConfig.ProfileDir} {
		fileInfo, err := fs.Stat(dirPath)
		require.NoError(t, err)
		assert.True(t, fileInfo.IsDir())
	}
}
