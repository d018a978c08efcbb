package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	qhttp "diabetespredictor/http"
	"diabetespredictor/logger"
	"diabetespredictor/ml"
	"diabetespredictor/storage"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zlog := logger.New(config.Log)
	defer zlog.Sync()

	// 2. Load the model once; nothing is served without it
	ctx, cancel := context.WithTimeout(context.Background(), config.Model.FetchTimeout)
	model, err := loadModel(ctx, config, zlog)
	cancel()
	if err != nil {
		zlog.Fatal("failed to load model", zap.Error(err))
	}

	predictor, err := ml.NewPredictor(model, config.Model.CacheSize)
	if err != nil {
		zlog.Fatal("failed to create predictor", zap.Error(err))
	}

	// 3. Start HTTP server
	server, err := qhttp.NewServer(config.Http, predictor, zlog)
	if err != nil {
		zlog.Fatal("failed to create server", zap.Error(err))
	}
	go func() {
		if err := server.Start(); err != nil {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	if err := server.Stop(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("exiting")
}

func newSource(ctx context.Context, config *Config) (storage.Source, error) {
	if config.UseLocalModel {
		return storage.LocalSource{Path: config.Model.Path}, nil
	}
	return storage.NewS3Source(ctx, config.Remote)
}

func loadModel(ctx context.Context, config *Config, zlog *zap.Logger) (ml.Classifier, error) {
	source, err := newSource(ctx, config)
	if err != nil {
		return nil, err
	}
	zlog.Info("loading model", zap.Stringer("source", source))

	path, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	model, err := ml.LoadModel(path)
	if err != nil {
		return nil, err
	}
	zlog.Info("model loaded", zap.String("path", path))
	return model, nil
}
