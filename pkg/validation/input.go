package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"net/netip"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/miekg/dns"
)

const (
	// MaxHostnameLength is the longest textual hostname DNS allows.
	MaxHostnameLength = 253
	// MaxLabelLength is the longest single DNS label.
	MaxLabelLength = 63
)

// ValidatePort parses a TCP port and checks it is within 1-65535.
func ValidatePort(input string) (int, error) {
	if input == "" {
		return 0, invalidf("port cannot be empty")
	}

	port, err := nat.ParsePort(input)
	if err != nil {
		return 0, invalidf("port %q is not a number in range 1-65535", input)
	}
	if port < 1 || port > 65535 {
		return 0, invalidf("port %d is out of range 1-65535", port)
	}

	return port, nil
}

// ValidateHostname checks a lowercase DNS hostname: at least two labels of
// 1-63 letters, digits or hyphens, no label starting or ending with a hyphen,
// and a last label starting with a letter.
func ValidateHostname(host string) error {
	if host == "" {
		return invalidf("hostname cannot be empty")
	}
	if len(host) > MaxHostnameLength {
		return invalidf("hostname too long: %d chars (max %d)", len(host), MaxHostnameLength)
	}
	if strings.HasSuffix(host, ".") {
		return invalidf("hostname must not end with a dot")
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return invalidf("malformed hostname")
	}

	labels := dns.SplitDomainName(host)
	if len(labels) < 2 {
		return invalidf("hostname needs at least two labels")
	}

	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return err
		}
	}

	tld := labels[len(labels)-1]
	if !isLetter(tld[0]) {
		return invalidf("top-level label %q must start with a letter", tld)
	}

	return nil
}

func validateLabel(label string) error {
	if label == "" || len(label) > MaxLabelLength {
		return invalidf("label %q must be 1-%d characters", label, MaxLabelLength)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return invalidf("label %q must not start or end with a hyphen", label)
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !isDigit(c) && c != '-' {
			return invalidf("label %q contains %q", label, c)
		}
	}
	return nil
}

// ValidateHostnames validates every host and reports all invalid ones.
func ValidateHostnames(hosts []string) error {
	var errs []error
	for _, host := range hosts {
		if err := ValidateHostname(host); err != nil {
			errs = append(errs, fmt.Errorf("invalid domain %s: %w", host, err))
		}
	}
	return errors.Join(errs...)
}

// ParseIPv4 reports whether input is a dotted-quad IPv4 literal.
func ParseIPv4(input string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(input)
	if err != nil || !addr.Is4() {
		return netip.Addr{}, false
	}
	return addr, true
}

// ValidateEmail checks a bare address such as ops@example.com.
// Display names and angle brackets are rejected.
func ValidateEmail(input string) error {
	if input == "" {
		return invalidf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(input)
	if err != nil {
		return invalidf("email %q: %v", input, err)
	}
	if addr.Name != "" || addr.Address != input {
		return invalidf("email %q must be a bare address", input)
	}

	at := strings.LastIndex(addr.Address, "@")
	host := strings.ToLower(addr.Address[at+1:])
	if err := ValidateHostname(host); err != nil {
		return invalidf("email %q has an invalid domain part", input)
	}

	return nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
