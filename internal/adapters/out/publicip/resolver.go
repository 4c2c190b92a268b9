// Package publicip detects the machine's public IPv4 address, first over
// HTTP and then through an OpenDNS lookup.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/miekg/dns"

	"github.com/Sergey2677/nginx/internal/domain"
)

// myIPName resolves to the asking client's address on OpenDNS resolvers.
const myIPName = "myip.opendns.com."

// Resolver implements out.PublicIPResolver.
type Resolver struct {
	url      string
	resolver string
	http     *http.Client
	dns      *dns.Client
	log      *log.Logger
}

// New creates a resolver. Either source may be empty to disable it.
func New(url, resolverAddr string, timeout time.Duration, log *log.Logger) *Resolver {
	return &Resolver{
		url:      url,
		resolver: resolverAddr,
		http:     &http.Client{Timeout: timeout},
		dns:      &dns.Client{Timeout: timeout},
		log:      log,
	}
}

// PublicIP returns the first address any source reports.
func (r *Resolver) PublicIP(ctx context.Context) (netip.Addr, error) {
	var errs []error

	if r.url != "" {
		ip, err := r.fromHTTP(ctx)
		if err == nil {
			return ip, nil
		}
		r.log.Warn("public IP lookup over HTTP failed", "url", r.url, "err", err)
		errs = append(errs, err)
	}

	if r.resolver != "" {
		ip, err := r.fromDNS(ctx)
		if err == nil {
			return ip, nil
		}
		r.log.Warn("public IP lookup over DNS failed", "resolver", r.resolver, "err", err)
		errs = append(errs, err)
	}

	return netip.Addr{}, fmt.Errorf("%w: %w", domain.ErrPublicIPNotFound, errors.Join(errs...))
}

func (r *Resolver) fromHTTP(ctx context.Context) (netip.Addr, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return netip.Addr{}, err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := r.http.Do(req)
	if err != nil {
		return netip.Addr{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return netip.Addr{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return netip.Addr{}, err
	}
	return parseIPv4(strings.TrimSpace(string(body)))
}

func (r *Resolver) fromDNS(ctx context.Context) (netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(myIPName, dns.TypeA)

	in, _, err := r.dns.ExchangeContext(ctx, m, r.resolver)
	if err != nil {
		return netip.Addr{}, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return netip.Addr{}, fmt.Errorf("resolver answered %s", dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			return parseIPv4(a.A.String())
		}
	}
	return netip.Addr{}, fmt.Errorf("no A record for %s", myIPName)
}

func parseIPv4(s string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid address %q", s)
	}
	ip = ip.Unmap()
	if !ip.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", ip)
	}
	return ip, nil
}
