package render

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Sergey2677/nginx/internal/domain"
)

// Generated files, relative to the working directory.
const (
	EnvPath        = ".env"
	ManifestPath   = "docker-compose.yml"
	ScriptPath     = "letsencrypt-initialize.sh"
	SitesAvailable = "sites-available"
	SitesEnabled   = "sites-enabled"
)

// ProxyConfigPath is where the proxy config copied out of the container lands.
func ProxyConfigPath(primary string) string {
	return path.Join(SitesAvailable, primary+".conf")
}

// AppConfigPath is where the rendered virtual host lands.
func AppConfigPath(primary string) string {
	return path.Join(SitesAvailable, primary+"_app.conf")
}

// RenderEnv fills the environment file template.
func RenderEnv(tpl []byte, domains domain.Domains, port string) ([]byte, error) {
	out := Substitute(string(tpl), map[string]string{
		"nginx_host":     domains.Joined(),
		"nginx_port":     port,
		"nginx_log_name": domains.Primary(),
	})

	if _, err := godotenv.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("rendered env file is not parseable: %w", err)
	}
	return []byte(out), nil
}

// RenderManifests fills the manifest template and derives the steady-state
// form from it. Both states are returned together.
func RenderManifests(tpl []byte, answers domain.Answers) (domain.Manifests, error) {
	bootstrap := []byte(Substitute(string(tpl), map[string]string{
		"name":   answers.ContainerName,
		"port":   answers.Port,
		"domain": answers.Domains.Primary(),
	}))

	steady, err := SteadyManifest(bootstrap)
	if err != nil {
		return domain.Manifests{}, err
	}

	return domain.Manifests{
		Bootstrap: domain.Manifest{State: domain.ManifestBootstrap, Content: bootstrap},
		Steady:    domain.Manifest{State: domain.ManifestSteady, Content: steady},
	}, nil
}

// SteadyManifest activates the commented entrypoint and strips the
// bootstrap-only env_file and templates mount from every service.
func SteadyManifest(bootstrap []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(activateEntrypoint(bootstrap), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest is not a mapping")
	}

	if services := mappingValue(doc.Content[0], "services"); services != nil && services.Kind == yaml.MappingNode {
		for i := 1; i < len(services.Content); i += 2 {
			stripBootstrapWiring(services.Content[i])
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func activateEntrypoint(manifest []byte) []byte {
	marker := domain.BootstrapEntrypointMarker
	lines := strings.Split(string(manifest), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			lines[i] = strings.Replace(line, marker, strings.TrimPrefix(marker, "#"), 1)
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

func stripBootstrapWiring(service *yaml.Node) {
	if service.Kind != yaml.MappingNode {
		return
	}
	removeKey(service, domain.BootstrapEnvFileKey)

	volumes := mappingValue(service, "volumes")
	if volumes == nil || volumes.Kind != yaml.SequenceNode {
		return
	}
	kept := volumes.Content[:0]
	for _, v := range volumes.Content {
		if volumeTarget(v) != domain.BootstrapTemplatesMount {
			kept = append(kept, v)
		}
	}
	volumes.Content = kept
	if len(volumes.Content) == 0 {
		removeKey(service, "volumes")
	}
}

// volumeTarget returns the container path of a short ("src:dst[:mode]") or
// long (target: dst) volume entry.
func volumeTarget(v *yaml.Node) string {
	switch v.Kind {
	case yaml.ScalarNode:
		parts := strings.Split(v.Value, ":")
		if len(parts) < 2 {
			return path.Clean(parts[0])
		}
		return path.Clean(parts[1])
	case yaml.MappingNode:
		if t := mappingValue(v, "target"); t != nil {
			return path.Clean(t.Value)
		}
	}
	return ""
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func removeKey(m *yaml.Node, key string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return
		}
	}
}

// RenderIssuanceScript fills the certificate issuance script template.
func RenderIssuanceScript(tpl []byte, answers domain.Answers) []byte {
	staging := ""
	if answers.Staging {
		staging = "--staging"
	}

	email := domain.NoEmail
	if answers.HasEmail() {
		email = "--email " + answers.Email
	}

	clauses := make([]string, 0, len(answers.Domains))
	for _, d := range answers.Domains {
		clauses = append(clauses, "-d "+strings.TrimSpace(d))
	}

	out := Substitute(string(tpl), map[string]string{
		"staging_arg": staging,
		"email_arg":   email,
		"domain":      strings.Join(clauses, " "),
		"conf":        answers.Domains.Primary(),
	})
	return []byte(collapseSpaces(out))
}

// RenderVirtualHost fills the reverse-proxy virtual host template.
func RenderVirtualHost(tpl []byte, domains domain.Domains) []byte {
	return []byte(Substitute(string(tpl), map[string]string{
		"domain_single": domains.Primary(),
		"domain":        domains.Joined(),
	}))
}
