package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote only", "192.0.2.1:5000", nil, false, "192.0.2.1"},
		{"headers ignored when untrusted", "192.0.2.1:5000", map[string]string{"X-Forwarded-For": "10.1.1.1"}, false, "192.0.2.1"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "203.0.113.9", "X-Forwarded-For": "10.1.1.1"}, true, "203.0.113.9"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": " 10.1.1.1 , 10.2.2.2"}, true, "10.1.1.1"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "10.3.3.3"}, true, "10.3.3.3"},
		{"fallback to remote", "[::1]:8080", nil, true, "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "fd00::/8", "garbage", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"11.0.0.1", false},
		{"192.168.1.5", true},
		{"192.168.1.6", false},
		{"::ffff:10.0.0.1", true},
		{"fd12::1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if NewIPMatcher([]string{"nope"}).IsEmpty() != true {
		t.Error("matcher with only invalid entries should be empty")
	}
}
