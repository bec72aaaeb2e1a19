package internal

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bingwall/internal/bing"
	"bingwall/internal/server"
	"bingwall/internal/wallpaper"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

const defaultBingURL = "https://www.bing.com"

func Bootstrap() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	baseURL := os.Getenv("BING_URL")
	if baseURL == "" {
		baseURL = defaultBingURL
	}

	httpClient := &http.Client{Timeout: time.Second * 15}
	fetcher := &bing.Client{HC: httpClient}

	client, err := wallpaper.New(baseURL, fetcher)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := server.New(port, client, logger)

	errs := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("port", port))
		err := srv.ListenAndServe()
		if err != nil {
			errs <- err
		}
		close(errs)
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-exit:
		return errors.New("sigterm received")
	}
}
