package main

import (
	"fmt"

	"github.com/amaumene/showtrack/internal/config"
	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/spf13/cobra"
)

func newRefreshPostersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-posters",
		Short: "Retry poster lookups for shows stuck on the placeholder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.StoreBackend != config.BackendBolt {
				return fmt.Errorf("refresh-posters needs STORE_BACKEND=%s, the memory store is empty outside serve", config.BackendBolt)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			posters := controllers.NewPosterController(store, a.newResolver(nil), nil, a.logger)
			refreshed, err := posters.RefreshPlaceholders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d poster(s)\n", refreshed)
			return nil
		},
	}
}
