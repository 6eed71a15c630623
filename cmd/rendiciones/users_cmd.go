package main

import (
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
)

func newUsersCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUsersBootstrapCmd(root))
	cmd.AddCommand(newUsersCreateCmd(root))
	cmd.AddCommand(newUsersUpdateCmd(root))
	cmd.AddCommand(newUsersProfileCmd(root))
	cmd.AddCommand(newUsersDeleteCmd(root))
	cmd.AddCommand(newUsersListCmd(root))
	return cmd
}

func newUsersBootstrapCmd(root *rootOptions) *cobra.Command {
	var dto services.BootstrapDTO
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first administrator of an empty store",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), root, func(a *app) error {
				u, err := a.svc.Bootstrap(cmd.Context(), dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toUserView(u))
			})
		},
	}
	cmd.Flags().StringVar(&dto.ID, "id", "", "User ID")
	cmd.Flags().StringVar(&dto.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&dto.Secret, "secret", "", "Login secret")
	return cmd
}

func newUsersCreateCmd(root *rootOptions) *cobra.Command {
	var dto services.CreateUserDTO
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				u, err := a.svc.CreateUser(cmd.Context(), actor, dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toUserView(u))
			})
		},
	}
	cmd.Flags().StringVar(&dto.ID, "id", "", "User ID")
	cmd.Flags().StringVar(&dto.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&dto.Secret, "secret", "", "Login secret")
	cmd.Flags().StringVar(&dto.Role, "role", "", "administrator|general_auditor|auditor|treasurer")
	return cmd
}

func newUsersUpdateCmd(root *rootOptions) *cobra.Command {
	var name, secret, role string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's name, secret or role",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			dto := services.UpdateUserDTO{
				Name:   changed(cmd, "name", name),
				Secret: changed(cmd, "secret", secret),
				Role:   changed(cmd, "role", role),
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				u, err := a.svc.UpdateUser(cmd.Context(), actor, args[0], dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toUserView(u))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&secret, "secret", "", "Login secret")
	cmd.Flags().StringVar(&role, "role", "", "New role")
	return cmd
}

func newUsersProfileCmd(root *rootOptions) *cobra.Command {
	var name, secret string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change the acting user's own name or secret",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			dto := services.UpdateProfileDTO{
				Name:   changed(cmd, "name", name),
				Secret: changed(cmd, "secret", secret),
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				u, err := a.svc.UpdateOwnProfile(cmd.Context(), actor, dto)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), toUserView(u))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&secret, "secret", "", "Login secret")
	return cmd
}

func newUsersDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and the presentations they authored",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, root, "users.delete", args[0], func(a *app, actor string) error {
				return a.svc.DeleteUser(cmd.Context(), actor, args[0])
			})
		},
	}
}

func newUsersListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the users visible to the acting user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := root.actorID()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), root, func(a *app) error {
				users, err := a.svc.ListUsers(cmd.Context(), actor)
				if err != nil {
					return err
				}
				for _, u := range users {
					if err := writeJSONLine(cmd.OutOrStdout(), toUserView(u)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
