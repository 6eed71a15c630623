package main

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the presentations visible to the acting user to an xlsx workbook",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				return runExport(cmd, a, actor, out)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output .xlsx path (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// runExport writes to a temp file next to out and renames it into place so
// a failed export leaves no partial workbook.
func runExport(cmd *cobra.Command, a *app, actor, out string) error {
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitFailure, errors.Wrap(err, "create output dir"))
	}
	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return withCode(exitFailure, errors.Wrap(err, "create temp file"))
	}
	defer os.Remove(tmp.Name())

	if err := services.NewExportService(a.svc).ExportPresentations(cmd.Context(), actor, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return withCode(exitFailure, errors.Wrap(err, "close temp file"))
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return withCode(exitFailure, errors.Wrap(err, "rename export"))
	}
	return writeJSONLine(cmd.OutOrStdout(), okView{OK: true, Action: "export", ID: out})
}
