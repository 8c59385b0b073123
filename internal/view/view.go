// Package view renders orchestrator results as text and tables for the
// terminal.
package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/epicevents/crm/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', 2, 64)
}

// UsersTable renders the collaborator list.
func UsersTable(users []models.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.EmployeeNumber,
			u.FullName,
			u.Email,
			string(u.Department),
		})
	}
	return renderTable([]string{"ID", "EMPLOYEE #", "NAME", "EMAIL", "DEPARTMENT"}, rows)
}

// ClientsTable renders the client list.
func ClientsTable(clients []models.Client) string {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		contact := "-"
		if c.CommercialContact.ID != 0 {
			contact = c.CommercialContact.FullName
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.FullName,
			c.Email,
			c.Company,
			contact,
		})
	}
	return renderTable([]string{"ID", "NAME", "EMAIL", "COMPANY", "COMMERCIAL"}, rows)
}

// ContractsTable renders the contract list.
func ContractsTable(contracts []models.Contract) string {
	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		client := "-"
		if c.Client.ID != 0 {
			client = c.Client.FullName
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(c.ID), 10),
			client,
			formatAmount(c.TotalAmount),
			formatAmount(c.AmountDue),
			string(c.Status),
		})
	}
	return renderTable([]string{"ID", "CLIENT", "TOTAL", "DUE", "STATUS"}, rows)
}

// EventsTable renders the event list.
func EventsTable(events []models.Event) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		support := "-"
		if e.SupportContact != nil {
			support = e.SupportContact.FullName
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Name,
			formatDate(e.StartDate),
			formatDate(e.EndDate),
			e.Location,
			strconv.Itoa(e.Attendees),
			support,
		})
	}
	return renderTable([]string{"ID", "NAME", "START", "END", "LOCATION", "ATTENDEES", "SUPPORT"}, rows)
}

func detail(pairs [][2]string) string {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%-16s %s\n", p[0]+":", p[1])
	}
	return b.String()
}

// UserDetail renders one collaborator.
func UserDetail(u *models.User) string {
	return detail([][2]string{
		{"ID", strconv.FormatUint(uint64(u.ID), 10)},
		{"Employee #", u.EmployeeNumber},
		{"Name", u.FullName},
		{"Email", u.Email},
		{"Department", string(u.Department)},
		{"Created", formatDate(u.CreatedAt)},
	})
}

// ClientDetail renders one client.
func ClientDetail(c *models.Client) string {
	contact := strconv.FormatUint(uint64(c.CommercialContactID), 10)
	if c.CommercialContact.ID != 0 {
		contact = fmt.Sprintf("%s (#%d)", c.CommercialContact.FullName, c.CommercialContact.ID)
	}
	return detail([][2]string{
		{"ID", strconv.FormatUint(uint64(c.ID), 10)},
		{"Name", c.FullName},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Company", c.Company},
		{"Commercial", contact},
		{"Created", formatDate(c.CreatedAt)},
		{"Updated", formatDate(c.UpdatedAt)},
	})
}

// ContractDetail renders one contract.
func ContractDetail(c *models.Contract) string {
	signedAt := "-"
	if c.SignedAt != nil {
		signedAt = formatDate(*c.SignedAt)
	}
	return detail([][2]string{
		{"ID", strconv.FormatUint(uint64(c.ID), 10)},
		{"Client", strconv.FormatUint(uint64(c.ClientID), 10)},
		{"Commercial", strconv.FormatUint(uint64(c.CommercialContactID), 10)},
		{"Total", formatAmount(c.TotalAmount)},
		{"Due", formatAmount(c.AmountDue)},
		{"Status", string(c.Status)},
		{"Signed at", signedAt},
		{"Created", formatDate(c.CreatedAt)},
	})
}

// EventDetail renders one event.
func EventDetail(e *models.Event) string {
	support := "unassigned"
	if e.SupportContact != nil {
		support = fmt.Sprintf("%s (#%d)", e.SupportContact.FullName, e.SupportContact.ID)
	} else if e.SupportContactID != nil {
		support = strconv.FormatUint(uint64(*e.SupportContactID), 10)
	}
	return detail([][2]string{
		{"ID", strconv.FormatUint(uint64(e.ID), 10)},
		{"Name", e.Name},
		{"Contract", strconv.FormatUint(uint64(e.ContractID), 10)},
		{"Start", formatDate(e.StartDate)},
		{"End", formatDate(e.EndDate)},
		{"Location", e.Location},
		{"Attendees", strconv.Itoa(e.Attendees)},
		{"Support", support},
		{"Notes", e.Notes},
	})
}

// ActorSummary renders the whoami output.
func ActorSummary(u *models.User) string {
	return fmt.Sprintf("%s <%s> - %s (%s)", u.FullName, u.Email, u.Department, u.EmployeeNumber)
}
