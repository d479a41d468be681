package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com", "https://example.com/"},
		{"example.com", "https://example.com/"},
		{"  HTTP://Example.COM:80/a/./b/../c  ", "http://example.com/a/c"},
		{"https://example.com:443/x?y=1", "https://example.com/x?y=1"},
		{"https://example.com:8443/", "https://example.com:8443/"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com/file", "https://", "javascript:alert(1)"} {
		t.Run(raw, func(t *testing.T) {
			_, err := normalizeURL(raw)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
