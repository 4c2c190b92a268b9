package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sergey2677/nginx/internal/adapters/out/filesystem"
	"github.com/Sergey2677/nginx/internal/logging"
	"github.com/Sergey2677/nginx/internal/templates"
)

func newTestService(t *testing.T, templatesDir string) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	ws, err := filesystem.NewWorkspace(root, logging.Discard())
	require.NoError(t, err)
	return NewService(ws, templates.Defaults(), templatesDir, logging.Discard()), root
}

func TestService_Scaffold_FreshWorkspace(t *testing.T) {
	svc, root := newTestService(t, "templates")

	written, err := svc.Scaffold(context.Background(), false)
	require.NoError(t, err)

	assert.Contains(t, written, "Dockerfile")
	for _, name := range templates.Required("templates") {
		assert.Contains(t, written, name)
		assert.FileExists(t, filepath.Join(root, name))
	}
}

func TestService_Scaffold_KeepsExistingFiles(t *testing.T) {
	svc, root := newTestService(t, "templates")
	require.NoError(t, os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("FROM custom\n"), 0644))

	written, err := svc.Scaffold(context.Background(), false)
	require.NoError(t, err)
	assert.NotContains(t, written, "Dockerfile")

	data, err := os.ReadFile(filepath.Join(root, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "FROM custom\n", string(data))

	written, err = svc.Scaffold(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, written, "Dockerfile")

	data, err = os.ReadFile(filepath.Join(root, "Dockerfile"))
	require.NoError(t, err)
	assert.NotEqual(t, "FROM custom\n", string(data))
}

func TestService_Scaffold_CustomTemplatesDir(t *testing.T) {
	root := t.TempDir()
	ws, err := filesystem.NewWorkspace(root, logging.Discard())
	require.NoError(t, err)

	defaults := fstest.MapFS{
		"Dockerfile":                  {Data: []byte("FROM nginx\n")},
		"templates/.env.template":     {Data: []byte("NGINX_HOST=$nginx_host\n")},
		"templates/nginx_templates/a": {Data: []byte("a")},
	}
	svc := NewService(ws, defaults, "tpl", logging.Discard())

	written, err := svc.Scaffold(context.Background(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Dockerfile", "tpl/.env.template", "tpl/nginx_templates/a"}, written)
	assert.FileExists(t, filepath.Join(root, "tpl", "nginx_templates", "a"))
}
