package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/oaistruct/internal/mets"
	"github.com/lehigh-university-libraries/oaistruct/internal/oai"
	"github.com/spf13/cobra"
)

// fetchFlags are shared by every command that talks to an OAI-PMH endpoint.
type fetchFlags struct {
	baseURL       string
	maxRetries    int
	timeout       time.Duration
	authorPairing string
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseURL, "url", os.Getenv("OAI_BASE_URL"), "OAI-PMH base URL (env: OAI_BASE_URL)")
	cmd.Flags().IntVar(&f.maxRetries, "retries", envInt("OAI_MAX_RETRIES", 3), "Maximum HTTP attempts per request (env: OAI_MAX_RETRIES)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", envDuration("OAI_TIMEOUT", 60*time.Second), "HTTP timeout (env: OAI_TIMEOUT)")
	cmd.Flags().StringVar(&f.authorPairing, "author-pairing", os.Getenv("AUTHOR_PAIRING"), "How given and family names are joined: positional, strict or nested (env: AUTHOR_PAIRING)")
}

// client builds the fetcher. Flags are read after godotenv has run, so values
// from .env are picked up when a flag was left at its default.
func (f *fetchFlags) client(cmd *cobra.Command) (*oai.Client, mets.AuthorPairing, error) {
	baseURL := f.baseURL
	if !cmd.Flags().Changed("url") && baseURL == "" {
		baseURL = os.Getenv("OAI_BASE_URL")
	}
	if baseURL == "" {
		return nil, 0, fmt.Errorf("--url or OAI_BASE_URL is required")
	}

	retries := f.maxRetries
	if !cmd.Flags().Changed("retries") {
		retries = envInt("OAI_MAX_RETRIES", retries)
	}
	timeout := f.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = envDuration("OAI_TIMEOUT", timeout)
	}
	pairingName := f.authorPairing
	if !cmd.Flags().Changed("author-pairing") && pairingName == "" {
		pairingName = os.Getenv("AUTHOR_PAIRING")
	}

	pairing, err := mets.ParseAuthorPairing(pairingName)
	if err != nil {
		return nil, 0, err
	}

	slog.Debug("OAI-PMH client configured", "url", baseURL, "retries", retries, "timeout", timeout, "author_pairing", pairing)
	return oai.NewClient(baseURL, retries, timeout), pairing, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring invalid integer", "env", key, "value", v)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring invalid duration", "env", key, "value", v)
		return fallback
	}
	return d
}
