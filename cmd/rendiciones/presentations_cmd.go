package main

import (
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
)

func newPresentationsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presentations",
		Aliases: []string{"pres"},
		Short:   "File and track presentations",
	}
	cmd.AddCommand(newPresentationsCreateCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "add-doc <presentation> <document>",
		Short: "Mark a document as delivered",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "presentations.add_document", args[0], func(a *app, actor string) error {
				return a.svc.AddDocument(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove-doc <presentation> <document>",
		Short: "Withdraw a delivered document",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "presentations.remove_document", args[0], func(a *app, actor string) error {
				return a.svc.RemoveDocument(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "close <presentation>",
		Short: "Close a presentation",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "presentations.close", args[0], func(a *app, actor string) error {
				return a.svc.ClosePresentation(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reopen <presentation>",
		Short: "Reopen a closed presentation",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "presentations.reopen", args[0], func(a *app, actor string) error {
				return a.svc.ReopenPresentation(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <presentation>",
		Short: "Delete a presentation",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "presentations.delete", args[0], func(a *app, actor string) error {
				return a.svc.DeletePresentation(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(newPresentationsListCmd(root))
	return cmd
}

func newPresentationsCreateCmd(root *rootOptions) *cobra.Command {
	var dto services.CreatePresentationDTO
	cmd := &cobra.Command{
		Use:   "create",
		Short: "File a presentation for the acting treasurer's municipality",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				p, err := a.svc.CreatePresentation(cmd.Context(), actor, dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toPresentationView(p))
			})
		},
	}
	cmd.Flags().StringVar(&dto.ID, "id", "", "Presentation ID")
	cmd.Flags().StringVar(&dto.ConvocationID, "convocation", "", "Convocation ID")
	return cmd
}

func newPresentationsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the presentations visible to the acting user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				list, err := a.svc.ListPresentations(cmd.Context(), actor)
				if err != nil {
					return err
				}
				for _, p := range list {
					if err := writeJSONLine(cmd.OutOrStdout(), toPresentationView(p)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
