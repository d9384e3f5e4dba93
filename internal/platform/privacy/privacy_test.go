package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeRemoteAddr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 with port", "192.168.1.47:54321", "192.168.1.0"},
		{"ipv4 bare", "10.0.0.9", "10.0.0.0"},
		{"ipv4 mapped ipv6", "[::ffff:172.16.50.255]:80", "172.16.50.0"},
		{"ipv6 with port", "[2001:db8:85a3::8a2e:370:7334]:443", "2001:db8:85a3::"},
		{"empty", "", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeRemoteAddr(tt.input))
		})
	}
}

func TestMaskCorporationNumber(t *testing.T) {
	assert.Equal(t, "******789", MaskCorporationNumber("123456789"))
	assert.Equal(t, "**", MaskCorporationNumber("12"))
	assert.Equal(t, "", MaskCorporationNumber(""))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+1********67", MaskPhone("+14165551267"))
	assert.Equal(t, "***", MaskPhone("+12"))
	assert.Equal(t, "****", MaskPhone("5551"))
}
