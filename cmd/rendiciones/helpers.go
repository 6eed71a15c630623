package main

import (
	"github.com/spf13/cobra"
)

// changed returns &value when the flag was set on the command line.
func changed[T any](cmd *cobra.Command, flag string, value T) *T {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

// act runs an operation that returns only an error and reports it as an
// okView line.
func act(cmd *cobra.Command, root *rootOptions, action, id string, fn func(a *app, actor string) error) error {
	actor, err := root.actorID()
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), root, func(a *app) error {
		if err := fn(a, actor); err != nil {
			return err
		}
		return writeJSONLine(cmd.OutOrStdout(), okView{OK: true, Action: action, ID: id})
	})
}
