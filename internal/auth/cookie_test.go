package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret-key-for-testing-only")

func TestCookieCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec(testSecret)
	values := []string{
		"",
		"alice",
		"5f0c8a4e-6a3b-4d0e-9d3c-3f1a2b4c5d6e",
		"with|pipe",
		"unicode ✓",
	}

	for _, v := range values {
		token := codec.Encode(v)
		got, ok := codec.Decode(token)
		require.True(t, ok, "decode failed for %q", v)
		assert.Equal(t, v, got)
	}
}

func TestCookieCodec_Format(t *testing.T) {
	t.Parallel()

	token := NewCookieCodec(testSecret).Encode("42")
	value, sig, ok := strings.Cut(token, "|")
	require.True(t, ok)
	assert.Equal(t, "42", value)
	assert.Len(t, sig, 64)
}

func TestCookieCodec_BitFlipRejected(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec(testSecret)
	token := codec.Encode("5f0c8a4e-6a3b-4d0e-9d3c-3f1a2b4c5d6e")

	for i := 0; i < len(token); i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := []byte(token)
			tampered[i] ^= 1 << bit
			_, ok := codec.Decode(string(tampered))
			assert.False(t, ok, "flip of bit %d at byte %d accepted", bit, i)
		}
	}
}

func TestCookieCodec_InvalidShapes(t *testing.T) {
	t.Parallel()

	codec := NewCookieCodec(testSecret)
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "alice"},
		{"empty signature", "alice|"},
		{"bogus signature", "alice|deadbeef"},
		{"signed by another key", NewCookieCodec([]byte("another-secret")).Encode("alice")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := codec.Decode(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestCookieCodec_CopiesSecret(t *testing.T) {
	t.Parallel()

	secret := []byte("mutable-secret")
	codec := NewCookieCodec(secret)
	token := codec.Encode("alice")

	secret[0] = 'X'
	_, ok := codec.Decode(token)
	assert.True(t, ok)
}
