package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/newthinker/algonex/internal/config"
	"github.com/newthinker/algonex/internal/logger"
	"github.com/newthinker/algonex/internal/storage/archive"
	"github.com/newthinker/algonex/internal/strategy"
)

// loadConfig reads and validates the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// openArchive opens the report store, or returns nil when archiving is off.
func openArchive(cfg *config.Config) (archive.Store, error) {
	store, err := archive.Open(cfg.Archive.Options())
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return store, nil
}

// readStrategyFile decodes a strategy from YAML (.yaml, .yml) or JSON.
func readStrategyFile(path string) (strategy.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return strategy.Config{}, fmt.Errorf("reading strategy file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return strategy.UnmarshalConfigYAML(data)
	default:
		return strategy.UnmarshalConfigJSON(data)
	}
}
