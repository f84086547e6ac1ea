package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/log"
)

// Tool name constants for account operations.
const (
	// CurrentUserName is the MCP tool name for fetching the token owner's profile.
	CurrentUserName = "get_current_user"
	// HealthName is the MCP tool name for the configuration health probe.
	HealthName = "health"
)

// CurrentUserInput defines input for the get_current_user tool (no input needed).
type CurrentUserInput struct{}

// HealthInput defines input for the health tool (no input needed).
type HealthInput struct{}

// UserRecord is the profile payload returned by get_current_user.
type UserRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SortableName string `json:"sortable_name"`
	ShortName    string `json:"short_name"`
	LoginID      string `json:"login_id"`
	PrimaryEmail string `json:"primary_email"`
	TimeZone     string `json:"time_zone"`
	Locale       string `json:"locale"`
}

// HealthRecord reports whether the server can reach Canvas at all.
// Env maps each required environment variable to its presence; values
// themselves are never included.
type HealthRecord struct {
	OK  bool            `json:"ok"`
	Env map[string]bool `json:"env"`
}

// Account holds handlers for identity and diagnostics tools.
type Account struct {
	provider *canvas.Provider
	logger   log.Logger

	mu      sync.Mutex
	profile *canvas.UserProfile
}

// NewAccount creates an Account toolset.
func NewAccount(provider *canvas.Provider, logger log.Logger) (*Account, error) {
	if provider == nil {
		return nil, fmt.Errorf("canvas provider is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Account{provider: provider, logger: logger}, nil
}

// CurrentUser returns the profile of the user the API token belongs to.
// The token's identity cannot change while the process runs, so the
// profile is fetched once and answered from memory afterwards. Only a
// successful fetch is cached.
func (a *Account) CurrentUser(ctx context.Context, _ CurrentUserInput) (Result, error) {
	a.logger.Debug("CurrentUser called")

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil {
		client, err := a.provider.Client()
		if err != nil {
			return canvasError(err), nil
		}

		profile, err := client.CurrentUserProfile(ctx)
		if err != nil {
			a.logger.Warn("CurrentUser fetch failed", "error", err)
			return fetchFailure(ctx, "fetching user profile", err)
		}
		a.profile = profile
	}

	a.logger.Debug("CurrentUser succeeded", "user_id", a.profile.ID)
	return Result{
		Status: StatusSuccess,
		Data: UserRecord{
			ID:           a.profile.ID,
			Name:         a.profile.Name,
			SortableName: a.profile.SortableName,
			ShortName:    a.profile.ShortName,
			LoginID:      a.profile.LoginID,
			PrimaryEmail: a.profile.PrimaryEmail,
			TimeZone:     a.profile.TimeZone,
			Locale:       a.profile.Locale,
		},
	}, nil
}

// Health reports whether the Canvas credentials are present. It never
// calls Canvas and never fails, so agents can always use it to diagnose
// an unconfigured server.
func (a *Account) Health(_ context.Context, _ HealthInput) (Result, error) {
	a.logger.Debug("Health called")

	env := a.provider.EnvPresence()
	ok := true
	for _, present := range env {
		if !present {
			ok = false
			break
		}
	}

	a.logger.Debug("Health succeeded", "ok", ok)
	return Result{
		Status: StatusSuccess,
		Data:   HealthRecord{OK: ok, Env: env},
	}, nil
}
