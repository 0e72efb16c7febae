package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/oaistruct/internal/server"
	"github.com/lehigh-university-libraries/oaistruct/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var fetch fetchFlags
	var port string
	var cacheTTL time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the structure API server",
		Long: `Starts a JSON API on the specified port that fetches records from the
configured OAI-PMH endpoint and resolves them on request.

Routes:
  GET /api/records/{id}/structures?type=Article&format=json
  GET /api/records/{id}/pages?type=Article
  GET /healthcheck
  GET /metrics`,
		Example: `  # Start server on default port 8888
  oaistruct serve --url https://viewer.example.org/oai

  # Start server on custom port
  oaistruct serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, pairing, err := fetch.client(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = envOr("PORT", port)
			}
			if !cmd.Flags().Changed("cache-ttl") {
				cacheTTL = envDuration("CACHE_TTL", cacheTTL)
			}

			addr := ":" + port
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(storage.NewCachingFetcher(client, cacheTTL), pairing, slog.Default()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Structure API available", "addr", addr, "oai", client.BaseURL, "cache_ttl", cacheTTL)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	fetch.register(cmd)
	cmd.Flags().StringVarP(&port, "port", "p", envOr("PORT", "8888"), "Port to listen on (env: PORT)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", envDuration("CACHE_TTL", 5*time.Minute), "Keep fetched records in memory this long, 0 disables (env: CACHE_TTL)")

	return cmd
}
