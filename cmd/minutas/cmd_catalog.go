package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	repo "github.com/joseph-ayodele/minutas/internal/repository"
)

var (
	seedFile      string
	healthTimeout time.Duration
	findBy        string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Reference catalog commands",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML seed (default: the embedded one) into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		backend, err := a.openCatalogs(ctx)
		if err != nil {
			return err
		}
		counts, err := a.seed(ctx, backend.store, seedFile)
		if err != nil {
			return err
		}
		for _, name := range repo.CatalogNames {
			if n, ok := counts[name]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "- %-16s %d\n", name, n)
			}
		}
		return nil
	},
}

var catalogHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Ping the catalog database and print entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		backend, err := a.openCatalogs(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if backend.db != nil {
			if err := repo.HealthCheck(ctx, backend.db, healthTimeout, a.logger); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}
			fmt.Fprintln(out, "DB health: OK")
		} else {
			fmt.Fprintln(out, "DB health: memory store")
		}

		counts, err := backend.store.Counts(ctx)
		if err != nil {
			return err
		}
		for _, name := range repo.CatalogNames {
			fmt.Fprintf(out, "- %-16s %d\n", name, counts[name])
		}
		return nil
	},
}

var catalogFindCmd = &cobra.Command{
	Use:   "find <catalog> <query>",
	Short: "Look up one catalog entry",
	Long: `Looks up one entry. --by picks the lookup: name (name, code or short name),
code, description (occupations) or best (industries).

Example:
  minutas catalog find ocupacion "ingeniero de sistemas" --by description`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !slices.Contains(repo.CatalogNames, args[0]) {
			return fmt.Errorf("unknown catalog %q (one of %v)", args[0], repo.CatalogNames)
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		backend, err := a.openCatalogs(ctx)
		if err != nil {
			return err
		}
		r := repo.NewCatalogRepository(backend.store, args[0], a.logger)

		var e *entity.CatalogEntry
		switch findBy {
		case "name":
			e, err = r.FindByName(ctx, args[1])
		case "code":
			e, err = r.FindByCode(ctx, args[1])
		case "description":
			e, err = r.FindByDescription(ctx, args[1])
		case "best":
			e, err = r.BestMatch(ctx, args[1])
		default:
			return fmt.Errorf("unknown lookup %q", findBy)
		}
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%s: no entry for %q", args[0], args[1])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (code=%s short=%s)\n", e.ID, e.Name, e.Code, e.ShortName)
		return nil
	},
}

func init() {
	catalogSeedCmd.Flags().StringVar(&seedFile, "file", "", "seed YAML file (default: embedded seed)")
	catalogHealthCmd.Flags().DurationVar(&healthTimeout, "timeout", time.Second, "ping timeout")
	catalogFindCmd.Flags().StringVar(&findBy, "by", "name", "lookup: name, code, description, best")

	catalogCmd.AddCommand(catalogSeedCmd, catalogHealthCmd, catalogFindCmd)
}
