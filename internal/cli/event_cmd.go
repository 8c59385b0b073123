package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epicevents/crm/internal/services"
	"github.com/epicevents/crm/internal/view"
)

func (a *App) eventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events",
	}
	cmd.AddCommand(
		a.eventListCommand(),
		a.eventViewCommand(),
		a.eventCreateCommand(),
		a.eventUpdateCommand(),
		a.eventAssignCommand(),
		a.eventDeleteCommand(),
	)
	return cmd
}

func (a *App) eventListCommand() *cobra.Command {
	var (
		mine      bool
		noSupport bool
		upcoming  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			events, err := a.Events.List(cmd.Context(), actor, services.ListEventsOptions{
				Mine:           mine,
				WithoutSupport: noSupport,
				UpcomingDays:   upcoming,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.EventsTable(events))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only your events")
	cmd.Flags().BoolVar(&noSupport, "no-support", false, "only events without a support contact")
	cmd.Flags().IntVar(&upcoming, "upcoming", 0, "only events starting within N days")
	return cmd
}

func (a *App) eventViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one event",
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
			event, err := a.Events.Get(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.EventDetail(event))
			return nil
		},
	}
}

func (a *App) eventCreateCommand() *cobra.Command {
	var (
		contractID uint
		name       string
		start      string
		end        string
		location   string
		attendees  int
		notes      string
		support    uint
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event under a signed contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			endDate, err := parseDate(end)
			if err != nil {
				return err
			}
			in := services.CreateEventInput{
				ContractID: contractID,
				Name:       name,
				StartDate:  startDate,
				EndDate:    endDate,
				Location:   location,
				Attendees:  attendees,
				Notes:      notes,
			}
			if cmd.Flags().Changed("support") {
				in.SupportContactID = &support
			}
			event, err := a.Events.Create(cmd.Context(), actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event #%d\n", event.ID)
			return nil
		},
	}
	cmd.Flags().UintVar(&contractID, "contract", 0, "contract id")
	cmd.Flags().StringVar(&name, "name", "", "event name")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD [HH:MM])")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD [HH:MM])")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().IntVar(&attendees, "attendees", 0, "attendee count")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().UintVar(&support, "support", 0, "support contact user id (GESTION)")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *App) eventUpdateCommand() *cobra.Command {
	var (
		name      string
		start     string
		end       string
		location  string
		attendees int
		notes     string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update event details (assigned support or GESTION)",
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
			in := services.UpdateEventInput{}
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("start") {
				t, err := parseDate(start)
				if err != nil {
					return err
				}
				in.StartDate = &t
			}
			if cmd.Flags().Changed("end") {
				t, err := parseDate(end)
				if err != nil {
					return err
				}
				in.EndDate = &t
			}
			if cmd.Flags().Changed("location") {
				in.Location = &location
			}
			if cmd.Flags().Changed("attendees") {
				in.Attendees = &attendees
			}
			if cmd.Flags().Changed("notes") {
				in.Notes = &notes
			}
			event, err := a.Events.Update(cmd.Context(), actor, id, in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.EventDetail(event))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "event name")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD [HH:MM])")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD [HH:MM])")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().IntVar(&attendees, "attendees", 0, "attendee count")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func (a *App) eventAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <event-id> <user-id>",
		Short: "Assign a SUPPORT contact to an event (GESTION)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor(cmd.Context())
			if err != nil {
				return err
			}
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}
			userID, err := parseID(args[1])
			if err != nil {
				return err
			}
			event, err := a.Events.AssignSupport(cmd.Context(), actor, eventID, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Event #%d assigned to user #%d\n", event.ID, userID)
			return nil
		},
	}
}

func (a *App) eventDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event (GESTION)",
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
			if err := a.Events.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event #%d\n", id)
			return nil
		},
	}
}
