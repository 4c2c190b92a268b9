// Package templates carries the default bootstrap templates and Dockerfile
// that the scaffold command writes into a fresh working directory.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

// Names of the template files relative to the templates directory.
const (
	EnvTemplate         = ".env.template"
	ManifestTemplate    = "docker-compose.yml.template"
	IssuanceTemplate    = "letsencrypt-initialize.sh.template"
	VirtualHostTemplate = "nginx_templates/app.conf"
	ProxyTemplate       = "nginx_templates/default.conf.template"
)

//go:embed all:assets
var assets embed.FS

// Defaults returns the embedded tree rooted so that it mirrors a working
// directory: Dockerfile at the top, templates under templates/.
func Defaults() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Required lists the template paths the provisioning run reads, joined
// onto dir.
func Required(dir string) []string {
	return []string{
		path.Join(dir, EnvTemplate),
		path.Join(dir, ManifestTemplate),
		path.Join(dir, IssuanceTemplate),
		path.Join(dir, VirtualHostTemplate),
	}
}
