package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/minutas/internal/geo"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Location code (ubigeo) reference table commands",
}

var geoLookupCmd = &cobra.Command{
	Use:   "lookup <departamento> <provincia> <distrito>",
	Short: "Resolve a department/province/district triple to its 6-digit code",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		r := geo.NewResolver(a.geoCache(), a.logger, a.metrics)
		code, ok := r.Lookup(cmd.Context(), args[0], args[1], args[2])
		if !ok {
			return fmt.Errorf("no location code for %s / %s / %s", args[0], args[1], args[2])
		}
		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	},
}

var geoRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Drop the cached reference table and fetch it again",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		cache := a.geoCache()
		if err := cache.Invalidate(ctx); err != nil {
			return err
		}
		t, err := cache.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reference table loaded: %d rows\n", t.Len())
		return nil
	},
}

func init() {
	geoCmd.AddCommand(geoLookupCmd, geoRefreshCmd)
}
