package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/server"
	"github.com/jonathan/jobseeker-buddy/internal/server/ratelimit"
)

var extractPort int

var extractServiceCmd = &cobra.Command{
	Use:   "extract-service",
	Short: "Run the standalone job extraction service",
	Long: `Serve only GET /extract?url=... backed by the inline scraper. Point another
instance at it with scraper.mode=service and scraper.service_url.`,
	RunE: runExtractService,
}

func init() {
	extractServiceCmd.Flags().IntVar(&extractPort, "port", 5000, "Port to listen on")
	rootCmd.AddCommand(extractServiceCmd)
}

func runExtractService(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	logger := setupLogger(verbose)
	cfg, err := loadConfig(cfgPath, os.Getenv)
	if err != nil {
		return err
	}

	client, err := newModelClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	opts := cfg.ScraperOptions()
	opts.Mode = scraper.ModeInline
	js, err := scraper.New(opts, client, logger)
	if err != nil {
		return err
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Port = extractPort
	srvCfg.RateLimit = ratelimit.LoadConfig()
	return server.New(srvCfg, server.Services{Extractor: js}, logger).Run(ctx)
}
