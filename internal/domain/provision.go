package domain

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

const (
	// DefaultPort is used when the operator skips the port prompt.
	DefaultPort = "80"

	// NoEmail is passed to the issuance tool when no contact address is given.
	NoEmail = "--register-unsafely-without-email"

	// NipSuffix is the wildcard-DNS-over-IP service used when no domain is owned.
	NipSuffix = "nip.io"

	// ContainerNamePrefix prefixes generated container names.
	ContainerNamePrefix = "nginx_"
)

// Domains is an ordered list of validated hostnames.
// The first entry is the primary domain.
type Domains []string

// Primary returns the first domain, or an empty string for an empty list.
func (d Domains) Primary() string {
	if len(d) == 0 {
		return ""
	}
	return strings.TrimSpace(d[0])
}

// Joined returns the domains separated by single spaces.
func (d Domains) Joined() string {
	return strings.TrimSpace(strings.Join(d, " "))
}

// NipDomains derives the nip.io pair for an IPv4 address.
func NipDomains(ip netip.Addr) Domains {
	host := fmt.Sprintf("%s.%s", ip.String(), NipSuffix)
	return Domains{host, "www." + host}
}

// DefaultContainerName returns the generated name for the given day.
func DefaultContainerName(now time.Time) string {
	return ContainerNamePrefix + now.Format(time.DateOnly)
}

// Answers holds everything collected from the operator.
type Answers struct {
	ContainerName string
	Domains       Domains
	Port          string
	Email         string
	Staging       bool
}

// HasEmail reports whether a contact address was supplied.
func (a Answers) HasEmail() bool {
	return a.Email != "" && a.Email != NoEmail
}

// Validate checks the invariants the renderers rely on.
func (a Answers) Validate() error {
	if a.ContainerName == "" {
		return fmt.Errorf("container name is empty")
	}
	if len(a.Domains) == 0 {
		return ErrNoDomains
	}
	if a.Port == "" {
		return fmt.Errorf("port is empty")
	}
	return nil
}

// Result summarises a successful provisioning run.
type Result struct {
	PrimaryDomain   string
	ProxyConfigPath string
	AppConfigPath   string
	Certificate     *CertificateInfo
}

// CertificateInfo describes the certificate issued inside the container.
type CertificateInfo struct {
	Subject   string
	DNSNames  []string
	NotBefore time.Time
	NotAfter  time.Time
}
