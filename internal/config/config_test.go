package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("R2_BUCKET_NAME", "uploads")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "public", cfg.UploadDir)
	assert.Equal(t, "http://localhost:5173", cfg.ClientURL)
	assert.False(t, cfg.UseObjectStorage(), "R2 needs credentials and a public URL as well")
}

func TestUseObjectStorage(t *testing.T) {
	cfg := Config{
		R2AccountID:       "acc",
		R2AccessKeyID:     "key",
		R2SecretAccessKey: "secret",
		R2BucketName:      "bucket",
		R2PublicURL:       "https://files.example.com",
	}
	assert.True(t, cfg.UseObjectStorage())

	cfg.R2PublicURL = ""
	assert.False(t, cfg.UseObjectStorage())
}
