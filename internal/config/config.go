// Package config handles application configuration via environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all configurable values for the app.
type Config struct {
	Env             string
	Addr            string
	PageSize        int
	MaxUploadBytes  int64
	Location        *time.Location
	ExportFileName  string
	ShutdownTimeout time.Duration
	FeedEndpoint    string
	FeedBatchSize   int
	FeedInterval    time.Duration
}

// Load reads environment variables and populates a Config struct.
func Load() *Config {
	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "10"))
	if err != nil || pageSize <= 0 {
		log.Panicf("Invalid PAGE_SIZE: %q", os.Getenv("PAGE_SIZE"))
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		log.Panicf("Invalid MAX_UPLOAD_BYTES: %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		log.Panicf("Invalid TIMEZONE: %v", err)
	}

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		log.Panicf("Invalid SHUTDOWN_TIMEOUT: %v", err)
	}

	feedSize, err := strconv.Atoi(getEnv("FEED_BATCH_SIZE", "5"))
	if err != nil || feedSize <= 0 {
		log.Panicf("Invalid FEED_BATCH_SIZE: %q", os.Getenv("FEED_BATCH_SIZE"))
	}

	feedInterval, err := time.ParseDuration(getEnv("FEED_INTERVAL", "10s"))
	if err != nil || feedInterval <= 0 {
		log.Panicf("Invalid FEED_INTERVAL: %q", os.Getenv("FEED_INTERVAL"))
	}

	return &Config{
		Env:             getEnv("ENV", "development"),
		Addr:            getEnv("ADDR", ":8080"),
		PageSize:        pageSize,
		MaxUploadBytes:  maxUpload,
		Location:        loc,
		ExportFileName:  getEnv("EXPORT_FILE_NAME", "filtered-records"),
		ShutdownTimeout: shutdown,
		FeedEndpoint:    os.Getenv("FEED_ENDPOINT"),
		FeedBatchSize:   feedSize,
		FeedInterval:    feedInterval,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
