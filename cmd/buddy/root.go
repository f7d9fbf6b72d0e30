package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/applications"
	"github.com/jonathan/jobseeker-buddy/internal/assets"
	"github.com/jonathan/jobseeker-buddy/internal/config"
	"github.com/jonathan/jobseeker-buddy/internal/db"
	"github.com/jonathan/jobseeker-buddy/internal/db/sqlite"
	"github.com/jonathan/jobseeker-buddy/internal/documents"
	"github.com/jonathan/jobseeker-buddy/internal/ingestion"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/storage"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "buddy",
	Short:         "JobSeeker Buddy",
	Long:          "JobSeeker Buddy turns a job posting URL and your resume, LinkedIn profile and experience notes into a tailored cover letter and resume.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a JSON or YAML config file (default: BUDDY_CONFIG env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and detailed output")
}

// loadConfig resolves the settings.
// Priority: environment > config file (explicit path or BUDDY_CONFIG) > defaults
func loadConfig(path string, getenv func(string) string) (*config.Config, error) {
	if path == "" {
		path = getenv("BUDDY_CONFIG")
	}

	cfg := config.Default()
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// newModelClient builds the retrying model client. Tests replace it.
var newModelClient = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Client, error) {
	modelCfg, err := cfg.ModelConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, modelCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	retries, delay := cfg.RetryPolicy()
	return llm.NewRetryClient(client, retries, delay, logger), nil
}

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to the embedded SQLite file otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (db.Store, error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Debug("using postgres store")
		return database, nil
	}

	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	logger.Debug("using sqlite store", "path", cfg.SQLitePath)
	return store, nil
}

// app holds the wired services for one command invocation.
type app struct {
	cfg          *config.Config
	store        db.Store
	client       llm.Client
	scraper      scraper.JobScraper
	assets       *assets.Service
	applications *applications.Service
	documents    *documents.Service
	logger       *slog.Logger
}

// newApp loads the config and wires storage, the model client, the scraper
// and the services.
func newApp(ctx context.Context) (*app, error) {
	logger := setupLogger(verbose)

	cfg, err := loadConfig(cfgPath, os.Getenv)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := newModelClient(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	js, err := scraper.New(cfg.ScraperOptions(), client, logger)
	if err != nil {
		_ = client.Close()
		_ = store.Close()
		return nil, err
	}

	return assemble(cfg, store, client, js, logger), nil
}

func assemble(cfg *config.Config, store db.Store, client llm.Client, js scraper.JobScraper, logger *slog.Logger) *app {
	summarizer := ingestion.NewSummarizer(client, logger)
	return &app{
		cfg:          cfg,
		store:        store,
		client:       client,
		scraper:      js,
		assets:       assets.NewService(store, storage.NewLocalStore(cfg.AssetsDir), summarizer, logger),
		applications: applications.NewService(store, js, logger),
		documents:    documents.NewService(store, store, client, cfg.DocumentOptions(), logger),
		logger:       logger,
	}
}

func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		a.logger.Warn("failed to close model client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}
