package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	actor   string
	envFile []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "rendiciones",
		Short:         "Municipal accountability records with role based access",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.actor, "as", "", "ID of the acting user")
	cmd.PersistentFlags().StringSliceVar(&opts.envFile, "env-file", []string{".env", ".env.local"}, "Env files to load")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newMunicipalitiesCmd(opts))
	cmd.AddCommand(newConvocationsCmd(opts))
	cmd.AddCommand(newPresentationsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newPolicyCmd())
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

// actorID returns the --as value or a usage error.
func (o *rootOptions) actorID() (string, error) {
	if o.actor == "" {
		return "", withCode(exitUsage, fmt.Errorf("--as is required"))
	}
	return o.actor, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
