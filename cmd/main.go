package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/repositories"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/spotify"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.CatalogService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := buildCatalog(config, logger); err == nil {
			catalog = svc
		} else {
			logger.Warnf("catalog unavailable: %v", err)
		}
	}

	var history *repositories.ExportRepository
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		history = repositories.NewExportRepository(db)
	} else {
		logger.Warnf("export history disabled: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		History: history,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "spotx",
		Usage:    "Browse and export Spotify catalog data",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildCatalog wires the transport, token manager and client from config.
func buildCatalog(config *shared.Config, logger *log.Logger) (*services.Catalog, error) {
	transport := spotify.NewHTTPTransport(spotify.HTTPTransportOpts{
		Timeout:   time.Duration(config.API.TimeoutSeconds) * time.Second,
		RateLimit: config.API.RateLimit,
	})

	tokens, err := spotify.NewTokenManager(spotify.TokenManagerOpts{
		ClientID:     config.Credentials.Spotify.ClientID,
		ClientSecret: config.Credentials.Spotify.ClientSecret,
		TokenURL:     config.API.TokenURL,
		Transport:    transport,
	})
	if err != nil {
		return nil, err
	}

	client, err := spotify.NewClient(spotify.ClientOpts{
		BaseURL:   config.API.BaseURL,
		Transport: transport,
		Tokens:    tokens,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return services.NewCatalog(client, spotify.Credential{}, logger)
}
