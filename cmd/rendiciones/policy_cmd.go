package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
)

func newPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the role permission policy as casbin CSV",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), permissions.PolicyCSV()+"\n")
			return err
		},
	}
}
