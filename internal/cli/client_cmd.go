package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epicevents/crm/internal/services"
	"github.com/epicevents/crm/internal/view"
)

func (a *App) clientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		a.clientListCommand(),
		a.clientViewCommand(),
		a.clientCreateCommand(),
		a.clientUpdateCommand(),
		a.clientDeleteCommand(),
	)
	return cmd
}

func (a *App) clientListCommand() *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			clients, err := a.Clients.List(cmd.Context(), actor, services.ListClientsOptions{Mine: mine})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.ClientsTable(clients))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only clients you own")
	return cmd
}

func (a *App) clientViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one client",
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
			client, err := a.Clients.Get(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ClientDetail(client))
			return nil
		},
	}
}

func (a *App) clientCreateCommand() *cobra.Command {
	var (
		name       string
		email      string
		phone      string
		company    string
		commercial uint
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client (COMMERCIAL self-assigns; GESTION names the commercial)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			client, err := a.Clients.Create(cmd.Context(), actor, services.CreateClientInput{
				FullName:            name,
				Email:               email,
				Phone:               phone,
				Company:             company,
				CommercialContactID: commercial,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created client #%d\n", client.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().UintVar(&commercial, "commercial", 0, "owning commercial user id (GESTION)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *App) clientUpdateCommand() *cobra.Command {
	var (
		name       string
		email      string
		phone      string
		company    string
		commercial uint
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a client (owner or GESTION)",
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
			in := services.UpdateClientInput{}
			if cmd.Flags().Changed("name") {
				in.FullName = &name
			}
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				in.Phone = &phone
			}
			if cmd.Flags().Changed("company") {
				in.Company = &company
			}
			if cmd.Flags().Changed("commercial") {
				in.CommercialContactID = &commercial
			}
			client, err := a.Clients.Update(cmd.Context(), actor, id, in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ClientDetail(client))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().UintVar(&commercial, "commercial", 0, "owning commercial user id")
	return cmd
}

func (a *App) clientDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client (GESTION)",
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
			if err := a.Clients.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client #%d\n", id)
			return nil
		},
	}
}
