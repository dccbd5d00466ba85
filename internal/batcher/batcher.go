// Package batcher buffers newly submitted records in memory and delivers
// them in batches to an outbound feed endpoint.
package batcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"recordbook/internal/config"
	"recordbook/internal/model"
)

const maxAttempts = 3

// Batcher defines the interface for adding records and controlling lifecycle.
type Batcher interface {
	Add(rec model.Record)
	Start()
	Stop()
}

type batcher struct {
	log        *zap.Logger
	endpoint   string
	size       int
	client     *http.Client
	retryDelay time.Duration
	entries    []model.Record
	mu         sync.Mutex
	ticker     *time.Ticker
	full       chan struct{}
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// New initializes a Batcher posting to cfg.FeedEndpoint.
func New(cfg *config.Config, logger *zap.Logger) Batcher {
	size := cfg.FeedBatchSize
	if size <= 0 {
		size = 1
	}
	return &batcher{
		log:        logger,
		endpoint:   cfg.FeedEndpoint,
		size:       size,
		client:     &http.Client{Timeout: 5 * time.Second},
		retryDelay: 2 * time.Second,
		ticker:     time.NewTicker(cfg.FeedInterval),
		full:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Add appends a record to the batch buffer.
func (b *batcher) Add(rec model.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, rec)
	if len(b.entries) >= b.size {
		select {
		case b.full <- struct{}{}:
		default:
		}
	}
}

// Start runs the flush loop until Stop is called.
func (b *batcher) Start() {
	defer close(b.done)
	for {
		select {
		case <-b.ticker.C:
			b.flush()
		case <-b.full:
			b.flush()
		case <-b.quit:
			b.ticker.Stop()
			b.flush()
			return
		}
	}
}

// Stop flushes what is buffered and waits for the loop to exit.
func (b *batcher) Stop() {
	b.stopOnce.Do(func() { close(b.quit) })
	<-b.done
}

func (b *batcher) flush() {
	b.mu.Lock()
	if len(b.entries) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.entries
	b.entries = nil
	b.mu.Unlock()

	payload, err := json.Marshal(batch)
	if err != nil {
		b.log.Error("failed to marshal batch", zap.Error(err))
		return
	}

	start := time.Now()
	var status int
	for i := 1; i <= maxAttempts; i++ {
		status, err = b.post(payload)
		if err == nil {
			break
		}
		b.log.Warn("feed POST failed", zap.Int("attempt", i), zap.Error(err))
		if i < maxAttempts {
			time.Sleep(b.retryDelay)
		}
	}

	if err != nil {
		b.log.Error("batch dropped after retries", zap.Int("size", len(batch)), zap.Error(err))
		return
	}

	b.log.Info("batch sent successfully",
		zap.Int("size", len(batch)),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)))
}

func (b *batcher) post(payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
