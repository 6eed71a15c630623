package main

import (
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
)

func newMunicipalitiesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "municipalities",
		Aliases: []string{"mun"},
		Short:   "Manage municipalities and their assignments",
	}
	cmd.AddCommand(newMunicipalitiesCreateCmd(root))
	cmd.AddCommand(newMunicipalitiesUpdateCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a municipality",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "municipalities.delete", args[0], func(a *app, actor string) error {
				return a.svc.DeleteMunicipality(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "assign-representative <municipality> <user>",
		Short: "Make a treasurer the municipality's representative",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "municipalities.assign_representative", args[0], func(a *app, actor string) error {
				return a.svc.AssignRepresentative(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unassign-representative <municipality>",
		Short: "Clear the municipality's representative",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "municipalities.unassign_representative", args[0], func(a *app, actor string) error {
				return a.svc.UnassignRepresentative(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "assign-supervisor <municipality> <user>",
		Short: "Make an auditor the municipality's supervisor",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "municipalities.assign_supervisor", args[0], func(a *app, actor string) error {
				return a.svc.AssignSupervisor(cmd.Context(), actor, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unassign-supervisor <municipality>",
		Short: "Clear the municipality's supervisor",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "municipalities.unassign_supervisor", args[0], func(a *app, actor string) error {
				return a.svc.UnassignSupervisor(cmd.Context(), actor, args[0])
			})
		},
	})
	cmd.AddCommand(newMunicipalitiesListCmd(root))
	return cmd
}

func newMunicipalitiesCreateCmd(root *rootOptions) *cobra.Command {
	var dto services.CreateMunicipalityDTO
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a municipality",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				m, err := a.svc.CreateMunicipality(cmd.Context(), actor, dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toMunicipalityView(m))
			})
		},
	}
	cmd.Flags().StringVar(&dto.ID, "id", "", "Municipality ID")
	cmd.Flags().StringVar(&dto.Name, "name", "", "Name")
	cmd.Flags().IntVar(&dto.Category, "category", 0, "Category")
	return cmd
}

func newMunicipalitiesUpdateCmd(root *rootOptions) *cobra.Command {
	var name string
	var category int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a municipality's name or category",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			dto := services.UpdateMunicipalityDTO{
				Name:     changed(cmd, "name", name),
				Category: changed(cmd, "category", category),
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				m, err := a.svc.UpdateMunicipality(cmd.Context(), actor, args[0], dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toMunicipalityView(m))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().IntVar(&category, "category", 0, "Category")
	return cmd
}

func newMunicipalitiesListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the municipalities visible to the acting user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				list, err := a.svc.ListMunicipalities(cmd.Context(), actor)
				if err != nil {
					return err
				}
				for _, m := range list {
					if err := writeJSONLine(cmd.OutOrStdout(), toMunicipalityView(m)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
