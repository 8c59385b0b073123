// Package cli wires the command surface: one short-lived process per
// invocation that authenticates from the stored session token, performs a
// single action through the services, renders the result and exits.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/services"
)

// App bundles configuration, the open store and the services behind the
// command tree.
type App struct {
	Config config.Config
	DB     *gorm.DB

	Sessions  *auth.TokenStore
	Auth      *services.AuthService
	Users     *services.UserService
	Clients   *services.ClientService
	Contracts *services.ContractService
	Events    *services.EventService
}

// NewApp builds the application from configuration and an open store.
func NewApp(cfg config.Config, conn *gorm.DB) (*App, error) {
	tokens, err := auth.NewTokenManager(cfg.AuthSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("configure session tokens: %w", err)
	}
	return &App{
		Config:    cfg,
		DB:        conn,
		Sessions:  auth.NewTokenStore(cfg.TokenFile),
		Auth:      services.NewAuthService(conn, tokens),
		Users:     services.NewUserService(conn),
		Clients:   services.NewClientService(conn, cfg.CascadeDelete),
		Contracts: services.NewContractService(conn, cfg.CascadeDelete),
		Events:    services.NewEventService(conn),
	}, nil
}

// RootCommand assembles the full command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "epicevents",
		Short:         "Epic Events CRM: clients, contracts and events from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.initCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.userCommand(),
		a.clientCommand(),
		a.contractCommand(),
		a.eventCommand(),
	)
	return root
}

// requireActor resolves the acting user from the stored session token.
// Missing, invalid or expired tokens fail closed before any service call.
func (a *App) requireActor(ctx context.Context) (*models.User, error) {
	token, err := a.Sessions.Load()
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "not logged in (run `epicevents login`)")
	}
	return a.Auth.Identify(ctx, token)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
}

func parseID(s string) (uint, error) {
	var id uint
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
