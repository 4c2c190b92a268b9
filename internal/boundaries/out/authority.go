package out

import (
	"context"

	"github.com/Sergey2677/nginx/internal/domain"
)

// CertificateAuthority describes the ACME certificate authority the
// in-container issuance tool talks to.
type CertificateAuthority interface {
	// Probe fetches the CA directory and returns its terms-of-service URL.
	Probe(ctx context.Context, staging bool) (string, error)

	// Inspect parses a PEM certificate chain issued by the CA.
	Inspect(pemChain []byte) (*domain.CertificateInfo, error)
}
