package geo

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/metrics"
)

// TableProvider hands out the current reference table.
type TableProvider interface {
	Get(ctx context.Context) (*Table, error)
}

// Resolver answers location-code lookups. It never returns an error: a failed table load
// is logged and reads as "no result".
type Resolver struct {
	tables  TableProvider
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewResolver builds a resolver over tables. m may be nil.
func NewResolver(tables TableProvider, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tables: tables, logger: logger, metrics: m}
}

// Lookup returns the six-digit code of a department/province/district triple.
func (r *Resolver) Lookup(ctx context.Context, department, province, district string) (string, bool) {
	dep, prov, dist := Alias(department), Alias(province), Norm(district)
	table, err := r.tables.Get(ctx)
	if err != nil {
		r.metrics.IncGeoLookup("error")
		r.logger.Warn("geo.lookup_failed",
			"departamento", dep,
			"provincia", prov,
			"distrito", dist,
			"error", err,
		)
		return "", false
	}

	code, ok := table.Find(department, province, district)
	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	r.metrics.IncGeoLookup(outcome)
	r.logger.Debug("geo.lookup",
		"departamento", dep,
		"provincia", prov,
		"distrito", dist,
		"outcome", outcome,
		"ubigeo", code,
	)
	return code, ok
}

// EnrichPayload fills the domicile location code of every canonical participant that has
// a complete department/province/district and no code yet. It returns how many were filled.
func (r *Resolver) EnrichPayload(ctx context.Context, p *entity.Payload) int {
	if p == nil {
		return 0
	}
	filled := 0
	for _, group := range [][]entity.Participant{p.Participants.Grantors, p.Participants.Beneficiaries} {
		for i := range group {
			d := &group[i].Domicile
			if d.LocationCode != "" || !d.Location.Complete() {
				continue
			}
			if code, ok := r.Lookup(ctx, d.Location.Department, d.Location.Province, d.Location.District); ok {
				d.LocationCode = code
				filled++
			}
		}
	}
	return filled
}
