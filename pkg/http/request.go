package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig holds configuration for IP extraction and validation
type IPConfig struct {
	trusted []netip.Prefix
}

// NewIPConfig parses the trusted proxy CIDR ranges. Bare addresses are
// accepted as single-host ranges; entries that parse as neither are returned
// in invalid so the caller can report them.
func NewIPConfig(trustedProxies []string) (cfg *IPConfig, invalid []string) {
	cfg = &IPConfig{}
	for _, entry := range trustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			cfg.trusted = append(cfg.trusted, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			cfg.trusted = append(cfg.trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		invalid = append(invalid, entry)
	}
	return cfg, invalid
}

// ExtractClientIP extracts the real client IP address from the request.
// X-Forwarded-For and X-Real-IP are honoured only when the direct peer is a
// trusted proxy, otherwise an attacker could pick the IP we record.
//
// Flow:
// 1. If request is from trusted proxy, take the first valid X-Forwarded-For entry
// 2. If request is from trusted proxy, check X-Real-IP header
// 3. Fall back to RemoteAddr
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remoteIP := getRemoteAddr(r)

	if config != nil && config.isTrusted(remoteIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for _, ip := range strings.Split(xff, ",") {
				ip = strings.TrimSpace(ip)
				if isValidIP(ip) {
					return ip
				}
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && isValidIP(xri) {
			return xri
		}
	}

	return remoteIP
}

// getRemoteAddr extracts the IP address from RemoteAddr (removing port if present)
func getRemoteAddr(r *http.Request) string {
	if r.RemoteAddr != "" {
		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return ip
		}
		return r.RemoteAddr
	}
	return "unknown"
}

func (c *IPConfig) isTrusted(ip string) bool {
	if len(c.trusted) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func isValidIP(ip string) bool {
	_, err := netip.ParseAddr(ip)
	return err == nil
}
