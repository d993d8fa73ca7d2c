package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-sync/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoKey(t *testing.T) {
	key, err := LogoKey("tmt_abc", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "tournaments/tmt_abc/logo-"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	other, err := LogoKey("tmt_abc", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = LogoKey("tmt_abc", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "tournaments/t/logo.png", "https://cdn.example.com/tournaments/t/logo.png"},
		{"https://cdn.example.com/", "/tournaments/t/logo.png", "https://cdn.example.com/tournaments/t/logo.png"},
		{"https://cdn.example.com/bowling", "a.png", "https://cdn.example.com/bowling/a.png"},
		{"", "a.png", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publicURL(tt.base, tt.key), "base=%q key=%q", tt.base, tt.key)
	}
}

func TestNewCloudflareR2Uploader_RequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), config.R2Config{BucketName: "logos"})
	assert.Error(t, err)
}
