package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/core/merge"
	"github.com/joseph-ayodele/minutas/internal/core/normalize"
	"github.com/joseph-ayodele/minutas/internal/core/pipeline"
	"github.com/joseph-ayodele/minutas/internal/geo"
	"github.com/joseph-ayodele/minutas/internal/metrics"
	repo "github.com/joseph-ayodele/minutas/internal/repository"
)

// app holds what the commands share. close releases everything opened through it.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	closers []func()
}

// processMetrics registers the collectors once; promauto panics on a second registration.
var processMetrics = sync.OnceValue(metrics.New)

func newApp() (*app, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, metrics: processMetrics()}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// catalogBackend is the opened catalog store; db is nil for the memory driver.
type catalogBackend struct {
	store repo.CatalogStore
	db    *sql.DB
}

// openCatalogs opens the configured store. The memory store is always seeded; SQL stores
// are migrated and seeded only while empty.
func (a *app) openCatalogs(ctx context.Context) (*catalogBackend, error) {
	var b catalogBackend
	switch a.cfg.Catalog.Driver {
	case common.DriverMemory:
		b.store = repo.NewMemoryStore()
	case common.DriverSQLite:
		db, err := repo.OpenSQLite(ctx, a.cfg.Catalog.SQLitePath, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		b.db = db
		b.store = repo.NewSQLStore(db, repo.DialectSQLite, a.logger)
	case common.DriverPostgres:
		d := a.cfg.Database
		db, pool, err := repo.Open(ctx, repo.Config{
			DSN:              d.DSN,
			MaxConns:         d.MaxConns,
			MinConns:         d.MinConns,
			MaxConnLifetime:  d.MaxConnLifetime,
			MaxConnIdleTime:  d.MaxConnIdleTime,
			DialTimeout:      d.DialTimeout,
			StatementTimeout: d.StatementTimeout,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { repo.Close(db, pool, a.logger) })
		b.db = db
		b.store = repo.NewSQLStore(db, repo.DialectPostgres, a.logger)
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", a.cfg.Catalog.Driver)
	}

	if sqlStore, ok := b.store.(*repo.SQLStore); ok {
		if err := sqlStore.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	counts, err := b.store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		if _, err := a.seed(ctx, b.store, a.cfg.Catalog.SeedFile); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

func (a *app) seed(ctx context.Context, store repo.CatalogStore, path string) (map[string]int, error) {
	seed, err := repo.LoadSeed(path)
	if err != nil {
		return nil, err
	}
	return repo.ApplySeed(ctx, store, seed, a.logger)
}

func (a *app) catalogs(store repo.CatalogStore) normalize.Catalogs {
	c := func(name string) *repo.CatalogRepository {
		return repo.NewCatalogRepository(store, name, a.logger)
	}
	return normalize.Catalogs{
		Documents:     c(repo.CatalogDocumentTypes),
		Countries:     c(repo.CatalogCountries),
		CivilStatus:   c(repo.CatalogCivilStatus),
		Currencies:    c(repo.CatalogCurrencies),
		RegistryZones: c(repo.CatalogRegistryZones),
		Occupations:   c(repo.CatalogOccupations),
		Industries:    c(repo.CatalogIndustries),
	}
}

// geoCache builds the reference table cache, with the redis tier when REDIS_ADDR is set.
func (a *app) geoCache() *geo.TableCache {
	g := a.cfg.Geo
	opts := []geo.CacheOption{geo.WithTTL(g.CacheTTL), geo.WithCacheMetrics(a.metrics)}
	if g.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: g.RedisAddr})
		a.closers = append(a.closers, func() { _ = client.Close() })
		opts = append(opts, geo.WithStore(geo.NewRedisStore(client, g.RedisKey)))
	}
	source := geo.NewHTTPSource(g.SourceURL, g.HTTPTimeout, a.logger)
	return geo.NewTableCache(source, a.logger, opts...)
}

func (a *app) normalizer(catalogs normalize.Catalogs) (*normalize.Normalizer, error) {
	m := a.cfg.Matching
	opts := []normalize.Option{
		normalize.WithMatchConfig(normalize.MatchConfig{Medium: m.MinScoreMedium, Form: m.MinScoreForm, Timing: m.MinScoreTiming}),
		normalize.WithMetrics(a.metrics),
	}
	if path := a.cfg.Pipeline.PaymentPolicyFile; path != "" {
		policy, err := normalize.LoadPaymentPolicy(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, normalize.WithPaymentPolicy(policy))
	}
	return normalize.New(catalogs, a.logger, opts...), nil
}

// pipeline wires catalogs, geo and the orchestrator. withGeo=false keeps runs offline.
func (a *app) pipeline(ctx context.Context, withGeo bool) (*pipeline.Pipeline, error) {
	backend, err := a.openCatalogs(ctx)
	if err != nil {
		return nil, err
	}
	norm, err := a.normalizer(a.catalogs(backend.store))
	if err != nil {
		return nil, err
	}
	strategy, err := merge.ParseStrategy(a.cfg.Pipeline.MergeStrategy)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{pipeline.WithStrategy(strategy), pipeline.WithMetrics(a.metrics)}
	if withGeo {
		opts = append(opts, pipeline.WithGeo(geo.NewResolver(a.geoCache(), a.logger, a.metrics)))
	}
	if !a.cfg.Pipeline.SchemaValidate {
		opts = append(opts, pipeline.WithoutSchemaValidation())
	}
	return pipeline.New(norm, a.logger, opts...)
}
