package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/cvoutline/internal/api"
	"github.com/dgallion1/cvoutline/internal/pipeline"
	"github.com/dgallion1/cvoutline/internal/version"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP render service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sheet, err := settings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		if cfg.APIKey == "" {
			log.Warn("CVOUTLINE_API_KEY is not set; API endpoints are unauthenticated")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Initialize pipeline.
		renderer := pipeline.NewRenderer(cfg, sheet, pipeline.NewRenderStats(time.Hour))
		orch := pipeline.NewOrchestrator(cfg, renderer, log)
		orch.Start(ctx)

		// Initialize HTTP server.
		srv := api.NewServer(orch, log, cfg)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-ctx.Done():
			}
			log.Info("shutting down...")

			orch.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting cvoutline", "port", cfg.Port, "version", version.Version, "workers", cfg.WorkerCount)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default $PORT or 8090)")

	rootCmd.AddCommand(serveCmd)
}
