package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, "filtered-records", cfg.ExportFileName)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.FeedEndpoint)
	assert.Equal(t, 5, cfg.FeedBatchSize)
	assert.Equal(t, 10*time.Second, cfg.FeedInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("ADDR", ":9090")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("EXPORT_FILE_NAME", "records")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("FEED_ENDPOINT", "https://example.com/hook")
	t.Setenv("FEED_BATCH_SIZE", "15")
	t.Setenv("FEED_INTERVAL", "30s")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, "records", cfg.ExportFileName)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://example.com/hook", cfg.FeedEndpoint)
	assert.Equal(t, 15, cfg.FeedBatchSize)
	assert.Equal(t, 30*time.Second, cfg.FeedInterval)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PAGE_SIZE", "invalid"},
		{"PAGE_SIZE", "0"},
		{"MAX_UPLOAD_BYTES", "-1"},
		{"TIMEZONE", "Mars/Olympus_Mons"},
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"FEED_BATCH_SIZE", "many"},
		{"FEED_BATCH_SIZE", "0"},
		{"FEED_INTERVAL", "invalid-duration"},
		{"FEED_INTERVAL", "0s"},
		{"FEED_INTERVAL", "-5s"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			os.Clearenv()
			t.Setenv(tc.key, tc.value)
			assert.Panics(t, func() { Load() })
		})
	}
}
