package redis

import (
	"testing"

	"github.com/MrSnakeDoc/nexus/internal/history"
)

var (
	_ history.KV      = (*Store)(nil)
	_ history.Updater = (*Store)(nil)
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"searchHistory", "nexus:searchHistory"},
		{"", "nexus:"},
	}
	for _, tt := range tests {
		if got := Key(tt.name); got != tt.expected {
			t.Errorf("Key(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}
