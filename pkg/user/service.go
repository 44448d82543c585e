package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogclient/pkg/session"
)

var (
	ErrEmptyCredentials = errors.New("identifier and password are required")
	ErrInvalidForm      = errors.New("invalid registration form")
)

// statusCoder is satisfied by the transport error types; the gateway only
// cares whether a failure was an explicit 401.
type statusCoder interface {
	StatusCode() int
}

// Gateway runs the auth exchanges and is the only writer of the session
// store.
type Gateway struct {
	Remote   Remote
	Sessions *session.Store
	Tokens   session.TokenRepo
	Logger   *slog.Logger

	validate *validator.Validate
}

func NewGateway(remote Remote, sessions *session.Store, tokens session.TokenRepo, logger *slog.Logger) *Gateway {
	return &Gateway{
		Remote:   remote,
		Sessions: sessions,
		Tokens:   tokens,
		Logger:   logger,
		validate: validator.New(),
	}
}

// Login exchanges credentials for a token, then fetches the profile with
// that token before touching the session store. Login alone establishes
// neither the user id nor the admin flag. If the profile fetch fails after
// a token was issued, the session stays fully anonymous.
func (g *Gateway) Login(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return ErrEmptyCredentials
	}

	token, err := g.Remote.Login(ctx, identifier, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	prof, err := g.Remote.Details(ctx, token)
	if err != nil {
		g.Sessions.Clear()
		return fmt.Errorf("profile fetch after login: %w", err)
	}

	g.Sessions.Set(prof.ID, prof.Admin(), token)
	if err := g.Tokens.Save(token); err != nil {
		// Session works for this run; only persistence across runs is lost.
		g.Logger.Warn("persist token", "error", err)
	}

	g.Logger.Info("login", "user", prof.ID, "admin", prof.Admin())
	return nil
}

// Register creates a new account. It does not authenticate the caller and
// leaves the session store alone. Field validation runs before any network
// call.
func (g *Gateway) Register(ctx context.Context, form RegisterForm) error {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.UserName = strings.TrimSpace(form.UserName)
	form.MobileNo = strings.TrimSpace(form.MobileNo)
	form.Password = strings.TrimSpace(form.Password)

	if err := g.validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	if err := g.Remote.Register(ctx, form); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	g.Logger.Info("registered", "user", form.UserName)
	return nil
}

// ResolveCurrentSession restores identity at startup from a token persisted
// by a prior run. Any failure leaves the session fully anonymous, never
// partially populated. The persisted token is only discarded when the
// server explicitly rejects it.
func (g *Gateway) ResolveCurrentSession(ctx context.Context) error {
	token, err := g.Tokens.Load()
	if err != nil {
		g.Sessions.Clear()
		if errors.Is(err, session.ErrNoToken) {
			return nil
		}
		return fmt.Errorf("load stored token: %w", err)
	}

	prof, err := g.Remote.Details(ctx, token)
	if err != nil {
		g.Sessions.Clear()
		var sc statusCoder
		if errors.As(err, &sc) && sc.StatusCode() == 401 {
			if delErr := g.Tokens.Delete(); delErr != nil {
				g.Logger.Warn("discard rejected token", "error", delErr)
			}
		}
		return fmt.Errorf("resolve session: %w", err)
	}

	g.Sessions.Set(prof.ID, prof.Admin(), token)
	g.Logger.Info("session restored", "user", prof.ID, "admin", prof.Admin())
	return nil
}

// Logout clears the session and the persisted token. No network call is
// needed.
func (g *Gateway) Logout() {
	g.Sessions.Clear()
	if err := g.Tokens.Delete(); err != nil {
		g.Logger.Warn("discard stored token", "error", err)
	}
}
