// Package acme talks to the Let's Encrypt directory before launch and reads
// the certificate the in-container client obtained.
package acme

import (
	"context"
	"crypto"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"

	"github.com/Sergey2677/nginx/internal/domain"
)

// probeUser is a throwaway, unregistered account used to open a client.
type probeUser struct {
	key crypto.PrivateKey
}

func (u *probeUser) GetEmail() string                        { return "" }
func (u *probeUser) GetRegistration() *registration.Resource { return nil }
func (u *probeUser) GetPrivateKey() crypto.PrivateKey        { return u.key }

// Authority implements out.CertificateAuthority.
type Authority struct {
	stagingURL    string
	productionURL string
	timeout       time.Duration
	log           *log.Logger
}

// New creates an authority targeting the Let's Encrypt directories.
func New(timeout time.Duration, log *log.Logger) *Authority {
	return &Authority{
		stagingURL:    lego.LEDirectoryStaging,
		productionURL: lego.LEDirectoryProduction,
		timeout:       timeout,
		log:           log,
	}
}

// DirectoryURL returns the directory used for the given mode.
func (a *Authority) DirectoryURL(staging bool) string {
	if staging {
		return a.stagingURL
	}
	return a.productionURL
}

// Probe fetches the ACME directory and returns its terms-of-service URL.
// No account is registered.
func (a *Authority) Probe(ctx context.Context, staging bool) (string, error) {
	key, err := certcrypto.GeneratePrivateKey(certcrypto.EC256)
	if err != nil {
		return "", fmt.Errorf("failed to generate probe key: %w", err)
	}

	cfg := lego.NewConfig(&probeUser{key: key})
	cfg.CADirURL = a.DirectoryURL(staging)
	cfg.HTTPClient = &http.Client{Timeout: a.timeout}

	a.log.Debug("probing certificate authority", "directory", cfg.CADirURL)

	type probeResult struct {
		tos string
		err error
	}
	done := make(chan probeResult, 1)
	go func() {
		client, err := lego.NewClient(cfg)
		if err != nil {
			done <- probeResult{err: err}
			return
		}
		done <- probeResult{tos: client.GetToSURL()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("failed to reach %s: %w", cfg.CADirURL, res.err)
		}
		return res.tos, nil
	}
}

// Inspect parses the leaf of a PEM chain.
func (a *Authority) Inspect(pemChain []byte) (*domain.CertificateInfo, error) {
	cert, err := certcrypto.ParsePEMCertificate(pemChain)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &domain.CertificateInfo{
		Subject:   cert.Subject.CommonName,
		DNSNames:  cert.DNSNames,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}, nil
}
