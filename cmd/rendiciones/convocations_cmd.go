package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func newConvocationsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "convocations",
		Aliases: []string{"conv"},
		Short:   "Manage convocations and their required documents",
	}
	cmd.AddCommand(newConvocationsCreateCmd(root))
	cmd.AddCommand(newConvocationsUpdateCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "require-doc <convocation> <document>",
		Short: "Require a catalog document",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "convocations.require_document", args[0], func(a *app, actor string) error {
				return a.svc.RequireConvocationDocument(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "withdraw-doc <convocation> <document>",
		Short: "Stop requiring a document",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "convocations.withdraw_document", args[0], func(a *app, actor string) error {
				return a.svc.WithdrawConvocationDocument(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status <convocation> <open|closed|auto>",
		Short: "Override the status or go back to the date window",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "convocations.status", args[0], func(a *app, actor string) error {
				return a.svc.SetConvocationStatus(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a convocation and its presentations",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "convocations.delete", args[0], func(a *app, actor string) error {
				return a.svc.DeleteConvocation(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(newConvocationsListCmd(root))
	return cmd
}

func newConvocationsCreateCmd(root *rootOptions) *cobra.Command {
	var id, opening, closing, description string
	var required []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a convocation",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			open, err := parseDate("opening_date", opening)
			if err != nil {
				return err
			}
			closeAt, err := parseDate("closing_date", closing)
			if err != nil {
				return err
			}
			dto := services.CreateConvocationDTO{
				ID:                id,
				OpeningDate:       open,
				ClosingDate:       closeAt,
				Description:       description,
				RequiredDocuments: required,
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				c, err := a.svc.CreateConvocation(cmd.Context(), actor, dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toConvocationView(a.svc, c))
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Convocation ID")
	cmd.Flags().StringVar(&opening, "opening", "", "Opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&closing, "closing", "", "Closing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringArrayVar(&required, "require", nil, "Required catalog document (repeatable)")
	return cmd
}

func newConvocationsUpdateCmd(root *rootOptions) *cobra.Command {
	var opening, closing, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a convocation's dates or description",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			var dto services.UpdateConvocationDTO
			if cmd.Flags().Changed("opening") {
				t, err := parseDate("opening_date", opening)
				if err != nil {
					return err
				}
				dto.OpeningDate = &t
			}
			if cmd.Flags().Changed("closing") {
				t, err := parseDate("closing_date", closing)
				if err != nil {
					return err
				}
				dto.ClosingDate = &t
			}
			dto.Description = changed(cmd, "description", description)
			return withApp(cmd.Context(), root, func(a *app) error {
				c, err := a.svc.UpdateConvocation(cmd.Context(), actor, args[0], dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toConvocationView(a.svc, c))
			})
		},
	}
	cmd.Flags().StringVar(&opening, "opening", "", "Opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&closing, "closing", "", "Closing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func newConvocationsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List convocations",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				list, err := a.svc.ListConvocations(cmd.Context(), actor)
				if err != nil {
					return err
				}
				for _, c := range list {
					if err := writeJSONLine(cmd.OutOrStdout(), toConvocationView(a.svc, c)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, serrors.NewValidationError("convocation", field, "datetime="+dateLayout)
	}
	return t, nil
}
