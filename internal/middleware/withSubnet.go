package middleware

import (
	"net/http"
	"net/netip"
	"strings"
)

// Subnet is a trusted network. The zero value trusts nobody.
type Subnet struct {
	prefix netip.Prefix
}

// ParseSubnet parses a CIDR such as "10.0.0.0/8". An empty string yields the
// zero Subnet.
func ParseSubnet(cidr string) (Subnet, error) {
	cidr = strings.TrimSpace(cidr)
	if cidr == "" {
		return Subnet{}, nil
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return Subnet{}, err
	}

	return Subnet{prefix: prefix.Masked()}, nil
}

// Contains reports whether ip belongs to the subnet.
func (s Subnet) Contains(ip string) bool {
	if !s.prefix.IsValid() {
		return false
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}

	return s.prefix.Contains(addr.Unmap())
}

func (s Subnet) String() string {
	if !s.prefix.IsValid() {
		return ""
	}
	return s.prefix.String()
}

// WithSubnet is an HTTP middleware that only lets through requests whose
// X-Real-IP header belongs to the trusted subnet.
func WithSubnet(subnet Subnet) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !subnet.Contains(r.Header.Get("X-Real-IP")) {
				writeErrors(w, http.StatusForbidden, "Request is not from a trusted subnet")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
