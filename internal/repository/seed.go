package repository

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
)

//go:embed seed/catalogs.yaml
var defaultSeed []byte

// Seed maps a catalog name to its entries.
type Seed map[string][]entity.CatalogEntry

// ParseSeed reads a YAML seed and checks every catalog is known and every entry has a
// name and an id unique within its catalog. Missing industry sections are filled in
// from the built-in table.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, common.NewAppError("SEED_PARSE", "decode catalog seed", err)
	}
	if seed == nil {
		seed = Seed{}
	}
	v := common.NewValidator()
	for name, entries := range seed {
		if !slices.Contains(CatalogNames, name) {
			v.AddError(name, "unknown catalog")
			continue
		}
		seen := map[int]struct{}{}
		for i, e := range entries {
			field := fmt.Sprintf("%s[%d]", name, i)
			if strings.TrimSpace(e.Name) == "" {
				v.AddError(field, "name is required")
			}
			if _, dup := seen[e.ID]; dup {
				v.AddError(field, fmt.Sprintf("duplicate id %d", e.ID))
			}
			seen[e.ID] = struct{}{}
		}
	}
	if v.HasErrors() {
		return nil, common.NewAppError("SEED_INVALID", v.ErrorMessage(), common.ErrValidation)
	}
	if len(seed[CatalogIndustries]) == 0 {
		seed[CatalogIndustries] = IndustryEntries()
	}
	return seed, nil
}

// LoadSeed reads the seed at path, or the embedded default when path is empty.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read catalog seed")
	}
	return ParseSeed(data)
}

// IndustryEntries converts the CIIU section table into catalog entries.
func IndustryEntries() []entity.CatalogEntry {
	out := make([]entity.CatalogEntry, 0, len(constants.IndustrySections))
	for _, s := range constants.IndustrySections {
		out = append(out, entity.CatalogEntry{ID: s.ID, Code: s.Code, Name: s.Activity})
	}
	return out
}

// ApplySeed upserts every catalog of seed and returns the number of entries written per catalog.
func ApplySeed(ctx context.Context, store CatalogStore, seed Seed, logger *slog.Logger) (map[string]int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	written := make(map[string]int, len(seed))
	for _, name := range CatalogNames {
		entries, ok := seed[name]
		if !ok {
			continue
		}
		if err := store.Upsert(ctx, name, entries); err != nil {
			return written, fmt.Errorf("seed %s: %w", name, err)
		}
		written[name] = len(entries)
		logger.Info("catalog.seed", "catalog", name, "entries", len(entries))
	}
	return written, nil
}
