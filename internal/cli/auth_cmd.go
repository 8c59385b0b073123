package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epicevents/crm/internal/db"
	"github.com/epicevents/crm/internal/view"
)

func (a *App) initCommand() *cobra.Command {
	var (
		name     string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the first GESTION account in an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := db.Seed(a.DB, name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created GESTION account %s (%s)\n", user.Email, user.EmployeeNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var (
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, user, err := a.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.Sessions.Save(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", view.ActorSummary(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.Sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current actor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.ActorSummary(actor))
			return nil
		},
	}
}
