// Package main provides the entry point for the record service.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recordbook/internal/batcher"
	"recordbook/internal/blob"
	"recordbook/internal/config"
	"recordbook/internal/form"
	"recordbook/internal/handler"
	"recordbook/internal/live"
	"recordbook/internal/logger"
	"recordbook/internal/model"
	"recordbook/internal/store"
)

// Run is the testable entrypoint for the application.
func Run(ctx context.Context) error {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()
	log.Info("Starting record service", zap.String("addr", cfg.Addr))

	records := store.New()
	blobs := blob.NewRegistry()
	validate := form.NewValidator()
	newForm := func() *form.Form { return form.New(records, blobs, validate) }
	sessions := form.NewSessions(newForm)
	hub := live.NewHub(log)

	var feed batcher.Batcher
	if cfg.FeedEndpoint != "" {
		feed = batcher.New(cfg, log)
		records.Subscribe(func(snapshot []model.Record) {
			feed.Add(snapshot[len(snapshot)-1])
		})
		go feed.Start()
	}

	h := handler.New(log, records, blobs, newForm, sessions, hub, handler.Options{
		PageSize:       cfg.PageSize,
		Location:       cfg.Location,
		ExportFileName: cfg.ExportFileName,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Handler:      h.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error("listen failed", zap.Error(err))
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error("server error", zap.Error(err))
		return err
	}

	log.Info("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	hub.CloseAll()
	if feed != nil {
		feed.Stop()
	}
	sessions.CloseAll()
	log.Info("Server stopped", zap.Int("records", records.Len()), zap.Int("livePictures", blobs.Live()))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx); err != nil {
		os.Exit(1)
	}
}
