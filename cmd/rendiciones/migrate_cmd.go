package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence"
	"github.com/rendiciones/rendiciones/pkg/configuration"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema migrations",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			defer cfg.Unload()
			if cfg.Store.Driver != configuration.StorePostgres {
				return withCode(exitUsage, fmt.Errorf("migrate needs STORE_DRIVER=postgres, got %q", cfg.Store.Driver))
			}
			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return withCode(exitStorage, err)
			}
			defer pool.Close()
			if err := persistence.Migrate(cmd.Context(), pool); err != nil {
				return withCode(exitStorage, err)
			}
			return writeJSONLine(cmd.OutOrStdout(), okView{OK: true, Action: "migrate"})
		},
	}
}
