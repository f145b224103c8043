package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/minutas/internal/async"
	"github.com/joseph-ayodele/minutas/internal/export"
	"github.com/joseph-ayodele/minutas/internal/ingest"
)

var (
	batchOutDir  string
	batchXLSX    string
	batchWorkers int
	batchTimeout time.Duration
	batchService string
	batchNoGeo   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Normalize every deed under a directory",
	Long: `Processes every deed text (.txt, .md) under the directory. When <name>.json sits next
to a text it is used as the model output for that deed. Identical texts are processed once.
Payloads are written to <out>/<name>.payload.json and, with --xlsx, collected into one
workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	addQueueFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "also write an XLSX workbook of all payloads")
}

func addQueueFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&batchOutDir, "out", "o", "", "output directory (default: the input directory)")
	cmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent pipeline runs")
	cmd.Flags().DurationVar(&batchTimeout, "timeout", time.Minute, "per-deed timeout")
	cmd.Flags().StringVar(&batchService, "service", "", "document/service type label applied to every deed")
	cmd.Flags().BoolVar(&batchNoGeo, "no-geo", false, "skip location code enrichment")
}

// payloadSink writes each finished deed and keeps the payloads for the workbook.
type payloadSink struct {
	outDir string

	mu       sync.Mutex
	docs     []export.Document
	failures int
}

func (s *payloadSink) handle(o async.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Err != nil {
		s.failures++
		return
	}
	if err := writePayload(filepath.Join(s.outDir, filepath.FromSlash(o.Job.ID)+".payload.json"), o.Result.Payload); err != nil {
		logger.Error("batch.write_failed", "job_id", o.Job.ID, "error", err)
		s.failures++
		return
	}
	s.docs = append(s.docs, export.Document{ID: o.Job.ID, Payload: o.Result.Payload})
}

func (s *payloadSink) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

// enqueueDeed reads one discovered deed and hands it to the queue.
func enqueueDeed(cmd *cobra.Command, q async.Queue, sink *payloadSink, d ingest.Deed) error {
	in, err := readInput(nil, d.TextPath, d.ModelPath)
	if err != nil {
		logger.Error("batch.read_failed", "file", d.TextPath, "error", err)
		sink.fail()
		return nil
	}
	in.Service = batchService
	return q.Enqueue(cmd.Context(), async.Job{ID: d.Name, Input: in, SubmittedAt: time.Now()})
}

func newQueue(a *app, cmd *cobra.Command, sink *payloadSink) (*async.ProcessorQueue, error) {
	p, err := a.pipeline(cmd.Context(), !batchNoGeo)
	if err != nil {
		return nil, err
	}
	return async.NewProcessorQueue(p, sink.handle, a.logger,
		async.WithWorkers(batchWorkers),
		async.WithQueueSize(2*batchWorkers),
		async.WithProcessTimeout(batchTimeout),
	), nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]
	outDir := batchOutDir
	if outDir == "" {
		outDir = dir
	}

	deeds, stats, err := ingest.NewScanner(true, logger).ScanDirectory(ctx, dir)
	if err != nil {
		return err
	}
	if stats.Matched == 0 {
		logger.Warn("batch.empty", "dir", dir)
		return nil
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sink := &payloadSink{outDir: outDir, failures: int(stats.Failed)}
	queue, err := newQueue(a, cmd, sink)
	if err != nil {
		return err
	}

	start := time.Now()
	for _, d := range deeds {
		if d.Err != "" || d.Duplicate {
			continue
		}
		if err := enqueueDeed(cmd, queue, sink, d); err != nil {
			logger.Warn("batch.enqueue_stopped", "file", d.TextPath, "error", err)
			break
		}
	}
	queue.Shutdown(ctx)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if batchXLSX != "" {
		sort.Slice(sink.docs, func(i, j int) bool { return sink.docs[i].ID < sink.docs[j].ID })
		data, err := export.NewService(a.logger).ExportPayloadsXLSX(ctx, sink.docs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(batchXLSX, data, 0o644); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}

	logger.Info("batch.done",
		"deeds", stats.Matched,
		"duplicates", stats.Deduplicated,
		"written", len(sink.docs),
		"failed", sink.failures,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if sink.failures > 0 {
		return fmt.Errorf("%d of %d deeds failed", sink.failures, stats.Matched)
	}
	return nil
}

func writePayload(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
