package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/minutas/internal/ingest"
)

var (
	watchDebounce time.Duration
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Normalize deeds as they are dropped into a directory",
	Long: `Watches the directory (recursively) and runs every new or changed deed text through the
pipeline, writing <out>/<name>.payload.json. Drop the model output <name>.json before the
text. Stops on Ctrl-C after draining the queue.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addQueueFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "coalesce write bursts per file")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also process files already in the directory")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]
	outDir := batchOutDir
	if outDir == "" {
		outDir = dir
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sink := &payloadSink{outDir: outDir}
	queue, err := newQueue(a, cmd, sink)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()
		queue.Shutdown(shutdownCtx)
	}()

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: watchExisting,
		Debounce:    watchDebounce,
		SkipHidden:  true,
	}, a.logger)
	if err != nil {
		return err
	}
	scanner := ingest.NewScanner(true, a.logger)
	logger.Info("watching", "dir", dir, "out", outDir)

	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			d, err := scanner.Inspect(dir, path)
			if err != nil {
				logger.Warn("watch.inspect_failed", "path", path, "error", err)
				continue
			}
			if d.Duplicate {
				continue
			}
			if err := enqueueDeed(cmd, queue, sink, d); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
