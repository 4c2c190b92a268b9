package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNewWorkspace(t *testing.T) {
	dir := t.TempDir()

	ws, err := NewWorkspace(dir, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, dir, ws.Root())
}

func TestNewWorkspace_MissingDirectory(t *testing.T) {
	_, err := NewWorkspace(filepath.Join(t.TempDir(), "missing"), quietLogger())
	assert.Error(t, err)
}

func TestNewWorkspace_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewWorkspace(file, quietLogger())
	assert.ErrorContains(t, err, "not a directory")
}

func TestWorkspace_WriteAndRead(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	require.NoError(t, ws.WriteFile("sites-available/example.com_app.conf", []byte("server {}"), 0644))

	data, err := ws.ReadFile("sites-available/example.com_app.conf")
	require.NoError(t, err)
	assert.Equal(t, "server {}", string(data))
	assert.True(t, ws.Exists("sites-available"))

	fromFS, err := fs.ReadFile(ws.FS(), "sites-available/example.com_app.conf")
	require.NoError(t, err)
	assert.Equal(t, data, fromFS)
}

func TestWorkspace_WriteFileAppliesPermissions(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	require.NoError(t, ws.WriteFile("letsencrypt-initialize.sh", []byte("#!/bin/sh\n"), 0644))
	require.NoError(t, ws.WriteFile("letsencrypt-initialize.sh", []byte("#!/bin/sh\n"), 0755))

	info, err := os.Stat(filepath.Join(ws.Root(), "letsencrypt-initialize.sh"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0755), info.Mode().Perm())
}

func TestWorkspace_RejectsEscapingPaths(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	for _, name := range []string{"../outside", "/etc/passwd", ""} {
		assert.Error(t, ws.WriteFile(name, []byte("x"), 0644), name)
		_, err := ws.ReadFile(name)
		assert.Error(t, err, name)
		assert.False(t, ws.Exists(name), name)
	}
}

func TestWorkspace_MkdirAllIsIdempotent(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	require.NoError(t, ws.MkdirAll("sites-enabled"))
	require.NoError(t, ws.MkdirAll("sites-enabled"))
	assert.DirExists(t, filepath.Join(ws.Root(), "sites-enabled"))
}

func TestWorkspace_RemoveAndRemoveAll(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	require.NoError(t, ws.WriteFile(".env", []byte("A=1"), 0644))
	require.NoError(t, ws.WriteFile("templates/nginx_templates/app.conf", []byte("x"), 0644))

	require.NoError(t, ws.Remove(".env"))
	assert.False(t, ws.Exists(".env"))
	assert.Error(t, ws.Remove(".env"))

	require.NoError(t, ws.RemoveAll("templates"))
	assert.False(t, ws.Exists("templates"))
}

func TestWorkspace_RemoveAllRefusesRoot(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), quietLogger())
	require.NoError(t, err)

	assert.Error(t, ws.RemoveAll("."))
	assert.DirExists(t, ws.Root())
}
