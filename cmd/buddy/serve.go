package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/server"
	"github.com/jonathan/jobseeker-buddy/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the upload, application, generation and feedback endpoints. Blocks until SIGINT/SIGTERM.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: config port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srvCfg := server.DefaultConfig()
	srvCfg.Port = a.cfg.Port
	if servePort != 0 {
		srvCfg.Port = servePort
	}
	srvCfg.RateLimit = ratelimit.LoadConfig()

	srv := server.New(srvCfg, server.Services{
		Assets:       a.assets,
		Applications: a.applications,
		Documents:    a.documents,
		Extractor:    a.scraper,
	}, a.logger)
	return srv.Run(ctx)
}
