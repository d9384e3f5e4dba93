// Package privacy reduces identifying values to forms that are safe to log.
package privacy

import (
	"net"
	"net/netip"
	"strings"
)

// AnonymizeRemoteAddr truncates a client address to its network: /24 for IPv4
// and /48 for IPv6. A trailing port is ignored. Empty input yields "unknown"
// and unparseable input yields "invalid".
func AnonymizeRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return "unknown"
	}
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskCorporationNumber keeps the last three characters of a corporation
// number, enough to tell values apart in logs without recording the number.
func MaskCorporationNumber(number string) string {
	const visible = 3
	if len(number) <= visible {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-visible) + number[len(number)-visible:]
}

// MaskPhone keeps the country prefix and last two digits of a phone number.
func MaskPhone(phone string) string {
	const visible = 2
	if !strings.HasPrefix(phone, "+1") || len(phone) <= 2+visible {
		return strings.Repeat("*", len(phone))
	}
	national := phone[2:]
	return "+1" + strings.Repeat("*", len(national)-visible) + national[len(national)-visible:]
}
