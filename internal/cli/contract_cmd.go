package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epicevents/crm/internal/services"
	"github.com/epicevents/crm/internal/view"
)

func (a *App) contractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts",
	}
	cmd.AddCommand(
		a.contractListCommand(),
		a.contractViewCommand(),
		a.contractCreateCommand(),
		a.contractUpdateCommand(),
		a.contractSignCommand(),
		a.contractCancelCommand(),
		a.contractPayCommand(),
		a.contractDeleteCommand(),
	)
	return cmd
}

func (a *App) contractListCommand() *cobra.Command {
	var (
		mine     bool
		unsigned bool
		unpaid   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			contracts, err := a.Contracts.List(cmd.Context(), actor, services.ListContractsOptions{
				Mine:     mine,
				Unsigned: unsigned,
				Unpaid:   unpaid,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.ContractsTable(contracts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only contracts you own")
	cmd.Flags().BoolVar(&unsigned, "unsigned", false, "only draft contracts")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only contracts with an outstanding amount")
	return cmd
}

func (a *App) contractViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one contract",
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
			contract, err := a.Contracts.Get(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ContractDetail(contract))
			return nil
		},
	}
}

func (a *App) contractCreateCommand() *cobra.Command {
	var (
		clientID uint
		total    float64
		due      float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft contract (GESTION, or the client's commercial)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			in := services.CreateContractInput{ClientID: clientID, TotalAmount: total, AmountDue: -1}
			if cmd.Flags().Changed("due") {
				in.AmountDue = due
			}
			contract, err := a.Contracts.Create(cmd.Context(), actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created contract #%d (draft)\n", contract.ID)
			return nil
		},
	}
	cmd.Flags().UintVar(&clientID, "client", 0, "client id")
	cmd.Flags().Float64Var(&total, "total", 0, "total amount")
	cmd.Flags().Float64Var(&due, "due", 0, "amount due (defaults to total)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func (a *App) contractUpdateCommand() *cobra.Command {
	var (
		total float64
		due   float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update contract amounts (owner or GESTION)",
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
			in := services.UpdateContractInput{}
			if cmd.Flags().Changed("total") {
				in.TotalAmount = &total
			}
			if cmd.Flags().Changed("due") {
				in.AmountDue = &due
			}
			contract, err := a.Contracts.Update(cmd.Context(), actor, id, in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ContractDetail(contract))
			return nil
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "total amount")
	cmd.Flags().Float64Var(&due, "due", 0, "amount due")
	return cmd
}

func (a *App) contractSignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <id>",
		Short: "Sign a draft contract (GESTION or owning commercial)",
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
			contract, err := a.Contracts.Sign(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract #%d signed\n", contract.ID)
			return nil
		},
	}
}

func (a *App) contractCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a contract (owner or GESTION; terminal)",
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
			contract, err := a.Contracts.Cancel(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract #%d cancelled\n", contract.ID)
			return nil
		},
	}
}

func (a *App) contractPayCommand() *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Record a payment against a contract",
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
			contract, err := a.Contracts.RecordPayment(cmd.Context(), actor, id, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract #%d: %.2f still due\n", contract.ID, contract.AmountDue)
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "payment amount")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *App) contractDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contract (GESTION)",
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
			if err := a.Contracts.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contract #%d\n", id)
			return nil
		},
	}
}
