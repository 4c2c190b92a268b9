package domain

// ManifestState names the two forms of the orchestration manifest.
type ManifestState string

const (
	// ManifestBootstrap mounts the files needed for first-run issuance.
	ManifestBootstrap ManifestState = "bootstrap"
	// ManifestSteady is the manifest used once a certificate exists.
	ManifestSteady ManifestState = "steady-state"
)

// Bootstrap-only wiring removed when moving to the steady state.
const (
	BootstrapEnvFileKey       = "env_file"
	BootstrapTemplatesMount   = "/etc/nginx/templates"
	BootstrapEntrypointMarker = "#entrypoint"
)

// Manifest is a rendered orchestration manifest in a given state.
type Manifest struct {
	State   ManifestState
	Content []byte
}

// Manifests holds both states, computed together before launch.
type Manifests struct {
	Bootstrap Manifest
	Steady    Manifest
}
