package templates

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_ContainsEveryRequiredTemplate(t *testing.T) {
	fsys := Defaults()

	for _, name := range Required("templates") {
		_, err := fs.Stat(fsys, name)
		assert.NoError(t, err, name)
	}

	_, err := fs.Stat(fsys, "Dockerfile")
	assert.NoError(t, err)

	_, err = fs.Stat(fsys, "templates/"+ProxyTemplate)
	assert.NoError(t, err)
}

func TestDefaults_ManifestCarriesBootstrapWiring(t *testing.T) {
	data, err := fs.ReadFile(Defaults(), "templates/"+ManifestTemplate)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "#entrypoint")
	assert.Contains(t, content, "env_file:")
	assert.Contains(t, content, ":/etc/nginx/templates")
	for _, placeholder := range []string{"$name", "$port", "$domain"} {
		assert.Contains(t, content, placeholder)
	}
}

func TestDefaults_IssuanceScriptPlaceholders(t *testing.T) {
	data, err := fs.ReadFile(Defaults(), "templates/"+IssuanceTemplate)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "#!/bin/sh"))
	for _, placeholder := range []string{"$staging_arg", "$email_arg", "$domain", "$conf"} {
		assert.Contains(t, content, placeholder)
	}
}

func TestRequired(t *testing.T) {
	assert.Equal(t, []string{
		"tpl/.env.template",
		"tpl/docker-compose.yml.template",
		"tpl/letsencrypt-initialize.sh.template",
		"tpl/nginx_templates/app.conf",
	}, Required("tpl"))
}
