package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	metricsAddr string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minutas",
	Short: "Reconcile and normalize notarial deed extractions",
	Long: `minutas turns a deed's text and the language model's JSON reply into the canonical
payload: parties, payments and assets with catalog codes and location codes.

Configuration comes from the environment (CATALOG_DRIVER, DB_URL, SQLITE_PATH,
UBIGEO_ONLINE_URL, REDIS_ADDR, PAYMENT_POLICY_FILE, MERGE_STRATEGY, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		// Messages with variables but no time/level. Stdout is kept for command output.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
					return slog.Attr{}
				}
				return a
			},
		}))
		slog.SetDefault(logger)
		if metricsAddr != "" {
			serveMetrics(cmd.Context(), metricsAddr)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while the command runs (e.g. :9090)")

	rootCmd.AddCommand(normalizeCmd, batchCmd, watchCmd, geoCmd, catalogCmd)
}

// serveMetrics exposes /metrics until ctx ends.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics serve error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra prints the error
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
