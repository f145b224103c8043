// Package normalize canonicalizes reconciled deed data against enumerated taxonomies
// and reference catalogs. Malformed fragments degrade to empty values; nothing here
// returns an error for bad input.
package normalize

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/metrics"
)

// Catalog is a read-only reference catalog. Lookups report a miss with common.ErrNotFound.
type Catalog interface {
	FindByName(ctx context.Context, name string) (*entity.CatalogEntry, error)
	FindByCode(ctx context.Context, code string) (*entity.CatalogEntry, error)
}

// OccupationCatalog adds the tolerant description lookup occupations need.
type OccupationCatalog interface {
	Catalog
	FindByDescription(ctx context.Context, text string) (*entity.CatalogEntry, error)
}

// IndustryCatalog adds best-match resolution of free-text economic activities.
type IndustryCatalog interface {
	Catalog
	BestMatch(ctx context.Context, text string) (*entity.CatalogEntry, error)
}

// Catalogs bundles the lookups used during normalization. Nil members are skipped
// and leave the dependent code fields null.
type Catalogs struct {
	Documents     Catalog
	Countries     Catalog
	CivilStatus   Catalog
	Currencies    Catalog
	RegistryZones Catalog
	Occupations   OccupationCatalog
	Industries    IndustryCatalog
}

// Normalizer holds the collaborators of the domain normalizers.
type Normalizer struct {
	catalogs Catalogs
	scorer   Scorer
	match    MatchConfig
	policy   *PaymentPolicy
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithScorer swaps the similarity strategy used for enum matching.
func WithScorer(s Scorer) Option {
	return func(n *Normalizer) { n.scorer = s }
}

// WithMatchConfig sets the fuzzy acceptance thresholds.
func WithMatchConfig(c MatchConfig) Option {
	return func(n *Normalizer) { n.match = c }
}

// WithPaymentPolicy sets the per-service payment form defaults.
func WithPaymentPolicy(p *PaymentPolicy) Option {
	return func(n *Normalizer) { n.policy = p }
}

// WithMetrics counts catalog lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Normalizer) { n.metrics = m }
}

func New(catalogs Catalogs, logger *slog.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{
		catalogs: catalogs,
		scorer:   LevenshteinScorer{},
		match:    DefaultMatchConfig(),
		policy:   DefaultPaymentPolicy(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// lookup runs one catalog query. Misses are silent; store failures are logged and
// treated as misses so the payload still gets built.
func (n *Normalizer) lookup(ctx context.Context, catalog, query string, find func() (*entity.CatalogEntry, error)) *entity.CatalogEntry {
	row, err := find()
	switch {
	case err == nil && row != nil:
		n.metrics.IncCatalogLookup(catalog, "hit")
		return row
	case err == nil || common.IsNotFound(err):
		n.metrics.IncCatalogLookup(catalog, "miss")
		return nil
	}
	n.metrics.IncCatalogLookup(catalog, "error")
	n.logger.WarnContext(ctx, "catalog.lookup_error", "catalog", catalog, "query", query, "err", err)
	return nil
}

func (n *Normalizer) findByName(ctx context.Context, name string, c Catalog, query string) *entity.CatalogEntry {
	if c == nil || query == "" {
		return nil
	}
	return n.lookup(ctx, name, query, func() (*entity.CatalogEntry, error) { return c.FindByName(ctx, query) })
}

func codeOf(row *entity.CatalogEntry) *int {
	if row == nil {
		return nil
	}
	id := row.ID
	return &id
}
