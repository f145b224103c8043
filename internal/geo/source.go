package geo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/minutas/internal/common"
)

const userAgent = "minutas/1.0"

// Source fetches the full reference table.
type Source interface {
	FetchAll(ctx context.Context) (*Table, error)
}

// HTTPSource downloads the table as JSON from a fixed URL.
type HTTPSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSource builds a source with its own client honoring timeout.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchAll downloads and parses the table.
func (s *HTTPSource) FetchAll(ctx context.Context) (*Table, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("geo.fetch.send_error", "url", s.url, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("fetch ubigeo table: %w: %w", common.ErrUpstream, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			s.logger.Warn("geo.fetch.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ubigeo table: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch ubigeo table: %w: non-2xx status: %d", common.ErrUpstream, resp.StatusCode)
	}

	table, err := ParseTable(raw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("geo.fetch.done",
		"url", s.url,
		"bytes", len(raw),
		"rows", table.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return table, nil
}
