package cache

import (
	"testing"
)

func TestHashKey_Deterministic(t *testing.T) {
	t.Parallel()

	key := "192.168.1.100"

	if hashKey(key) != hashKey(key) {
		t.Error("Same key should produce same hash")
	}
}

func TestHashKey_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := len(hashKey(tt.key)); got != 16 {
				t.Errorf("hashKey(%q) length = %d, want 16", tt.key, got)
			}
		})
	}
}

func TestHashKey_DistinctKeys(t *testing.T) {
	t.Parallel()

	if hashKey("10.0.0.1") == hashKey("10.0.0.2") {
		t.Error("Different keys should produce different hashes")
	}
}

func TestHashKey_DoesNotLeakAddress(t *testing.T) {
	t.Parallel()

	key := "203.0.113.7"
	if hashKey(key) == key {
		t.Error("Hash should not equal the raw key")
	}
}
