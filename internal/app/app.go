// Package app wires configuration, logging, storage, and services into one
// initialized application core shared by the command-line entry points.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/interfaces"
	"github.com/bobmcallan/annscreen/internal/screen"
	"github.com/bobmcallan/annscreen/internal/storage/badger"
)

// App holds all initialized services and storage.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	ScreenService  interfaces.ScreenService
	MappingService interfaces.MappingService
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case the default resolution logic is used:
// ANNSCREEN_CONFIG, then annscreen.toml beside the binary, then the
// development fallback config/annscreen.toml.
func NewApp(configPath string) (*App, error) {
	startupTime := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("ANNSCREEN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "annscreen.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/annscreen.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	// Resolve relative storage path to the binary directory so the tool is
	// self-contained wherever it is installed.
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	storage, err := badger.NewManager(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &App{
		Config:         config,
		Logger:         logger,
		Storage:        storage,
		ScreenService:  screen.NewService(config, storage, logger),
		MappingService: screen.NewMappingService(storage, logger),
		StartupTime:    startupTime,
	}, nil
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
