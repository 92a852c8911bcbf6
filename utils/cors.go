package utils

import (
	"net"
	"net/url"
	"strings"
)

// IsAllowedOrigin checks whether an Origin header value should be trusted.
// The browser UI is expected to run on the same machine or LAN as the server,
// so localhost, private IPs and .local hostnames are allowed while public
// internet origins are blocked.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" || strings.HasSuffix(hostname, ".local") {
		return true
	}
	// Single-label hostnames are LAN names.
	if !strings.Contains(hostname, ".") {
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return isPrivateIP(ip)
	}
	return false
}

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
