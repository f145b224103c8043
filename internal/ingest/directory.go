package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/minutas/internal/core/text"
)

// Scanner discovers deed files. It remembers every text hash it has seen, so a text dropped
// twice (under any name) is reported as a duplicate. Safe for concurrent use.
type Scanner struct {
	skipHidden bool
	logger     *slog.Logger

	mu   sync.Mutex
	seen map[string]string // hash -> first text path
}

func NewScanner(skipHidden bool, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{skipHidden: skipHidden, logger: logger, seen: map[string]string{}}
}

// Inspect hashes one text file and pairs it with its model output. root is used to build the
// deed name and may be empty.
func (s *Scanner) Inspect(root, path string) (Deed, error) {
	d := Deed{TextPath: path, Name: deedName(root, path)}
	if !AllowedExt(filepath.Ext(path)) {
		return d, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	d.Hash = text.Hash(string(data))
	d.ModelPath = modelOutputFor(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if first, ok := s.seen[d.Hash]; ok && first != path {
		d.Duplicate = true
		s.logger.Info("ingest.duplicate", "path", path, "same_as", first)
	} else {
		s.seen[d.Hash] = path
	}
	return d, nil
}

// ScanDirectory walks root and inspects every deed text file. Per-file failures are recorded
// in the results and the walk goes on.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]Deed, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []Deed
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Deed{TextPath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if s.skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		deed, err := s.Inspect(root, path)
		if err != nil {
			deed.Err = err.Error()
			results = append(results, deed)
			stats.Failed++
			return nil
		}
		results = append(results, deed)
		stats.Succeeded++
		if deed.Duplicate {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	s.logger.Info("ingest.scan.done",
		"root", root,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func deedName(root, path string) string {
	name := filepath.Base(path)
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	return filepath.ToSlash(strings.TrimSuffix(name, filepath.Ext(name)))
}
