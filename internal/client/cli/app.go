package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/config"
	"github.com/BraisonWabwire/shopke-cli/internal/client/guard"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/client/services"
	"github.com/BraisonWabwire/shopke-cli/internal/client/session"
	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// App wires the storefront client together: session store and manager,
// request gateway, services, and the REPL. One App serves one terminal;
// other instances share only the session database.
type App struct {
	config    *config.Config
	log       logging.Logger
	store     *session.SQLiteStore
	sessions  *session.Manager
	apiClient api.Client
	auth      services.AuthService
	cart      *services.CartService
	dashboard *services.DashboardService

	reader *bufio.Reader
	out    io.Writer

	// appCtx is the lifetime of the whole app; poller contexts derive
	// from it so app shutdown cancels everything.
	appCtx     context.Context
	pollMu     sync.Mutex
	pollCancel context.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault(os.Stderr, parseLevel(cfg.LogLevel))

	dbPath, err := cfg.ResolveSessionDBPath()
	if err != nil {
		return nil, err
	}
	store, err := session.OpenSQLiteStore(ctx, session.DSN(dbPath))
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		log:    log,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	a.sessions = session.NewManager(ctx, store, log)
	gateway := api.NewRESTClient(cfg.APIBaseURL, a.sessions, a.onUnauthorized, log)
	a.apiClient = gateway
	a.auth = services.NewAuthService(gateway, a.sessions)
	a.cart = services.NewCartService(gateway, a.confirmPrompt, log)
	a.dashboard = services.NewDashboardService(gateway)

	a.sessions.Subscribe(func(identity *models.User) { a.syncPoller(identity) })

	return a, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (a *App) confirmPrompt(prompt string) bool {
	return Confirm(a.reader, prompt, a.out)
}

// onUnauthorized is the gateway's teardown hook: the server rejected our
// credential, so the session is gone no matter which call noticed first.
func (a *App) onUnauthorized(ctx context.Context) {
	a.sessions.Teardown(ctx)
	if a.cart != nil {
		a.cart.Reset()
	}
	fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
}

// syncPoller starts the cart badge poller when the customer role becomes
// active and cancels it on any transition away. It is safe to call with
// every identity change; it only acts on transitions.
func (a *App) syncPoller(identity *models.User) {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	isCustomer := identity != nil && identity.Role == models.RoleCustomer
	switch {
	case isCustomer && a.pollCancel == nil:
		if a.appCtx == nil {
			return
		}
		ctx, cancel := context.WithCancel(a.appCtx)
		a.pollCancel = cancel
		poller := services.NewBadgePoller(a.cart, a.config.CartPollInterval, a.log)
		go poller.Run(ctx)
	case !isCustomer && a.pollCancel != nil:
		a.pollCancel()
		a.pollCancel = nil
		a.cart.Reset()
	}
}

func (a *App) stopPoller() {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()
	if a.pollCancel != nil {
		a.pollCancel()
		a.pollCancel = nil
	}
}

// Run starts the session watcher and the REPL, and blocks until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.appCtx = ctx

	watcher := session.NewWatcher(a.store, a.config.SessionWatchInterval, a.log)
	go watcher.Run(ctx, func(c context.Context) { a.sessions.Refresh(c) })

	// The persisted session may already be a customer's.
	a.syncPoller(a.sessions.Identity())

	fmt.Fprintln(a.out, "Welcome to ShopKE (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.showError, bufio.NewScanner(os.Stdin), a.out)

	a.stopPoller()
	_ = a.apiClient.Close()
	_ = a.store.Close()
}

func (a *App) getStatus() string {
	identity := a.sessions.Identity()
	if identity == nil {
		return ""
	}
	s := fmt.Sprintf("%s %s", identity.Username, identity.Role)
	if identity.Role == models.RoleCustomer {
		s = fmt.Sprintf("%s cart:%d", s, a.cart.BadgeCount())
	}
	return "(" + s + ")"
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Identity() != nil
}

// requireRole gates a screen on the central access decision. On a redirect
// outcome it shows the appropriate screen instead and reports false.
func (a *App) requireRole(ctx context.Context, required models.Role) bool {
	identity := a.sessions.Identity()
	switch guard.Evaluate(identity, required) {
	case guard.Allow:
		return true
	case guard.RedirectLogin:
		fmt.Fprintln(a.out, "Please log in first.")
		return false
	case guard.RedirectHome:
		a.showHome(ctx, identity)
		return false
	default:
		return false
	}
}

// showHome renders the dashboard belonging to the identity's own role.
func (a *App) showHome(ctx context.Context, identity *models.User) {
	if identity == nil {
		return
	}
	if identity.Role == models.RoleOwner {
		_ = a.Dashboard(ctx)
		return
	}
	_ = a.Products(ctx)
}

// showError turns service errors into user-facing messages. Authentication
// rejection is already handled by the gateway; everything else is reported
// here at the call site.
func (a *App) showError(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, api.ErrUnauthorized):
		// Teardown and messaging already happened centrally.
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "The server is unavailable. Please try again.")
	case errors.Is(err, api.ErrPermissionDenied):
		fmt.Fprintln(a.out, "You don't have permission to do that.")
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintln(a.out, "Not found.")
	case errors.Is(err, services.ErrItemBusy):
		fmt.Fprintln(a.out, "That item is still updating. Try again in a moment.")
	default:
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			if ve.Detail != "" {
				fmt.Fprintln(a.out, ve.Detail)
			}
			for field, msgs := range ve.Fields {
				for _, msg := range msgs {
					fmt.Fprintf(a.out, "  %s: %s\n", field, msg)
				}
			}
			if ve.Detail == "" && len(ve.Fields) == 0 {
				fmt.Fprintln(a.out, "The server rejected the input.")
			}
			return
		}
		fmt.Fprintf(a.out, "Error: %s\n", err)
	}
}
