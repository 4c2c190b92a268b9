package out

import (
	"context"
	"net/netip"
)

// PublicIPResolver detects the public IPv4 address of this machine.
type PublicIPResolver interface {
	PublicIP(ctx context.Context) (netip.Addr, error)
}
