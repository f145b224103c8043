package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Catalog names as stored.
const (
	CatalogDocumentTypes = "tipo_documento"
	CatalogCountries     = "pais"
	CatalogCivilStatus   = "estado_civil"
	CatalogCurrencies    = "moneda"
	CatalogRegistryZones = "zona_registral"
	CatalogOccupations   = "ocupacion"
	CatalogIndustries    = "ciiu"
)

// CatalogNames lists every catalog in seeding order.
var CatalogNames = []string{
	CatalogDocumentTypes,
	CatalogCountries,
	CatalogCivilStatus,
	CatalogCurrencies,
	CatalogRegistryZones,
	CatalogOccupations,
	CatalogIndustries,
}

// CatalogStore is the storage engine behind the catalogs. Keys are textutil.Key forms.
// Finders return common.ErrNotFound on a miss.
type CatalogStore interface {
	Entries(ctx context.Context, catalog string) ([]entity.CatalogEntry, error)
	FindByKey(ctx context.Context, catalog, key string) (*entity.CatalogEntry, error)
	FindByCode(ctx context.Context, catalog, code string) (*entity.CatalogEntry, error)
	Upsert(ctx context.Context, catalog string, entries []entity.CatalogEntry) error
	Counts(ctx context.Context) (map[string]int, error)
}

// CatalogRepository serves lookups on one named catalog.
type CatalogRepository struct {
	store   CatalogStore
	catalog string
	logger  *slog.Logger
}

func NewCatalogRepository(store CatalogStore, catalog string, logger *slog.Logger) *CatalogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogRepository{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// Name is the catalog this repository reads.
func (r *CatalogRepository) Name() string {
	return r.catalog
}

// FindByName matches the name, code or short name, ignoring case and diacritics.
func (r *CatalogRepository) FindByName(ctx context.Context, name string) (*entity.CatalogEntry, error) {
	key := textutil.Key(name)
	if key == "" {
		return nil, common.ErrNotFound
	}
	return r.store.FindByKey(ctx, r.catalog, key)
}

// FindByCode matches the code or the numeric id.
func (r *CatalogRepository) FindByCode(ctx context.Context, code string) (*entity.CatalogEntry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, common.ErrNotFound
	}
	return r.store.FindByCode(ctx, r.catalog, code)
}

// FindByDescription is the tolerant occupation lookup: exact description, then the
// shortest description containing every significant token, then the "other" bucket.
func (r *CatalogRepository) FindByDescription(ctx context.Context, text string) (*entity.CatalogEntry, error) {
	if textutil.Key(text) == "" {
		return nil, common.ErrNotFound
	}
	entries, err := r.store.Entries(ctx, r.catalog)
	if err != nil {
		return nil, err
	}
	if e := MatchDescription(entries, text); e != nil {
		return e, nil
	}
	r.logger.Debug("catalog.description_miss", "catalog", r.catalog, "text", text)
	return nil, common.ErrNotFound
}

// BestMatch resolves an economic activity written as a section letter, "X: ACTIVITY",
// "X - ACTIVITY" or the activity itself.
func (r *CatalogRepository) BestMatch(ctx context.Context, text string) (*entity.CatalogEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrNotFound
	}
	entries, err := r.store.Entries(ctx, r.catalog)
	if err != nil {
		return nil, err
	}
	if e := MatchIndustry(entries, text); e != nil {
		return e, nil
	}
	return nil, common.ErrNotFound
}
