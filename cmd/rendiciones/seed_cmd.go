package main

import (
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/seed"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture, bootstrapping its administrator when the store is empty",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				f   *seed.Fixture
				err error
			)
			if file == "" {
				f, err = seed.Default()
			} else {
				f, err = seed.LoadFile(file)
			}
			if err != nil {
				return withCode(exitUsage, err)
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				sum, err := seed.Apply(cmd.Context(), a.svc, f, a.logger)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]any{
					"bootstrapped":   sum.Bootstrapped,
					"users":          sum.Users,
					"municipalities": sum.Municipalities,
					"convocations":   sum.Convocations,
				})
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Fixture path (defaults to the built-in demo data)")
	return cmd
}
