// Package validation screens upload submissions before the ingestion
// orchestrator is allowed to persist anything. The security predicates
// are pure functions over strings; callers map false to a field-scoped
// validation error.
package validation

import (
	"net"
	"net/url"
	"strings"
)

// ssrfBlockedRanges are the address ranges a stored key or link target
// may never point at.
var ssrfBlockedRanges = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

// ValidatePathSecurity rejects strings carrying traversal sequences,
// null bytes, or double-encoded traversal/slash sequences.
func ValidatePathSecurity(s string) bool {
	if strings.Contains(s, "../") || strings.Contains(s, `..\`) {
		return false
	}
	if strings.Contains(s, "\x00") {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%2f%2f") {
		return false
	}
	return true
}

// ValidateURLSSRFProtection rejects URLs whose host is a loopback,
// private, or link-local target. It never resolves DNS: non-literal
// hostnames other than localhost pass, matching the screening contract.
func ValidateURLSSRFProtection(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	switch host {
	case "localhost", "127.0.0.1", "::1":
		return false
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return true
	}
	if ip.IsLoopback() {
		return false
	}
	for _, n := range ssrfBlockedRanges {
		if n.Contains(ip) {
			return false
		}
	}
	return true
}

// ValidateURLSecurity is the conjunction of the path and SSRF checks.
func ValidateURLSecurity(raw string) bool {
	return ValidatePathSecurity(raw) && ValidateURLSSRFProtection(raw)
}
