package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/services"
	"github.com/epicevents/crm/internal/view"
)

func (a *App) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage collaborator accounts (GESTION)",
	}
	cmd.AddCommand(
		a.userListCommand(),
		a.userViewCommand(),
		a.userCreateCommand(),
		a.userUpdateCommand(),
		a.userDeleteCommand(),
		a.userPasswdCommand(),
	)
	return cmd
}

func (a *App) userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collaborators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			users, err := a.Users.List(cmd.Context(), actor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.UsersTable(users))
			return nil
		},
	}
}

func (a *App) userViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one collaborator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.Users.Get(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.UserDetail(user))
			return nil
		},
	}
}

func (a *App) userCreateCommand() *cobra.Command {
	var (
		name       string
		email      string
		department string
		password   string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collaborator (GESTION)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.Users.Create(cmd.Context(), actor, services.CreateUserInput{
				FullName:   name,
				Email:      email,
				Department: models.Department(department),
				Password:   password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user #%d (%s)\n", user.ID, user.EmployeeNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&department, "department", "", "GESTION, COMMERCIAL or SUPPORT")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) userUpdateCommand() *cobra.Command {
	var (
		name       string
		email      string
		department string
		password   string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a collaborator (GESTION)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := services.UpdateUserInput{}
			if cmd.Flags().Changed("name") {
				in.FullName = &name
			}
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			if cmd.Flags().Changed("department") {
				dept := models.Department(department)
				in.Department = &dept
			}
			if cmd.Flags().Changed("password") {
				in.Password = &password
			}
			user, err := a.Users.Update(cmd.Context(), actor, id, in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.UserDetail(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&department, "department", "", "GESTION, COMMERCIAL or SUPPORT")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func (a *App) userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collaborator (GESTION)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.Users.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user #%d\n", id)
			return nil
		},
	}
}

func (a *App) userPasswdCommand() *cobra.Command {
	var (
		current string
		next    string
	)
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your own password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Users.ChangePassword(cmd.Context(), actor, current, next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
