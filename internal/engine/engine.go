// Package engine is the public face of the automation: it owns the browser
// session, serializes access to it, and wraps every portal operation with
// login verification, retry and cookie persistence.
package engine

import (
	"context"
	"time"

	"amon/internal/attendance"
	"amon/internal/auth"
	"amon/internal/browser"
	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/history"
	"amon/internal/portal"
	"amon/internal/profile"
	"amon/internal/submit"

	"go.uber.org/zap"
)

// loginAttempts is how many times an operation retries its login check.
// Between attempts the browser is fully torn down: the second try starts
// from a fresh Chrome, which clears everything short of bad credentials.
const loginAttempts = 2

// Engine ties the session, auth manager and workers together. All public
// methods hold the session lock for their whole duration: the portal binds
// state to the server session, so concurrent operations would corrupt each
// other even in separate tabs.
type Engine struct {
	cfg     *config.Config
	log     *zap.Logger
	session *browser.Session
	nav     *portal.Navigator
	auth    *auth.Manager
	history *history.Collector
	profile *profile.Collector
	submit  *submit.Engine

	now func() time.Time
}

// New wires an engine from configuration. The browser is not launched
// until the first operation needs it.
func New(cfg *config.Config, log *zap.Logger) *Engine {
	session := browser.NewSession(cfg, log)
	act := browser.NewDriver()
	nav := portal.NewNavigator(cfg, act, log)
	return &Engine{
		cfg:     cfg,
		log:     log.Named("engine"),
		session: session,
		nav:     nav,
		auth:    auth.NewManager(cfg, act, log),
		history: history.NewCollector(cfg, session, nav, log),
		profile: profile.NewCollector(cfg, nav, log),
		submit:  submit.NewEngine(cfg, nav, act, log),
		now:     time.Now,
	}
}

// Close tears the browser down. Safe to call on an engine that never
// launched it.
func (e *Engine) Close() {
	e.session.Close()
}

// LoginState reports the outcome of the most recent login verification.
func (e *Engine) LoginState() auth.LoginState {
	return e.auth.State()
}

// ensureAlive acquires a page and verifies the login on it, restarting the
// browser between attempts. Invalid credentials abort immediately: a fresh
// Chrome will not fix a wrong password.
func (e *Engine) ensureAlive(ctx context.Context, headless bool, force bool) (context.Context, error) {
	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		if attempt > 1 {
			e.log.Warn("restarting browser before retry", zap.Error(lastErr))
			e.session.Reset()
			e.auth.ResetBootstrap()
			force = true
		}

		page, err := e.session.AcquirePage(headless)
		if err != nil {
			lastErr = err
			continue
		}
		if err := e.auth.EnsureSession(page, force); err != nil {
			if apperrors.IsInvalidCredentials(err) || apperrors.IsPrecondition(err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return page, nil
	}
	return nil, lastErr
}

// saveCookies is called after successful authenticated work so the next
// process start can skip the login form.
func (e *Engine) saveCookies() {
	if err := e.session.SaveCookies(); err != nil {
		e.log.Warn("saving cookies failed", zap.Error(err))
	}
}

// TestLogin verifies credentials against the portal, forcing a fresh form
// login even when the session already looks alive.
func (e *Engine) TestLogin(ctx context.Context, headless bool) (auth.LoginState, error) {
	e.session.Lock()
	defer e.session.Unlock()

	_, err := e.ensureAlive(ctx, headless, true)
	if err != nil {
		return e.auth.State(), err
	}
	e.saveCookies()
	return e.auth.State(), nil
}

// EnsureAlive verifies the session is usable, logging in only if needed.
func (e *Engine) EnsureAlive(ctx context.Context) error {
	e.session.Lock()
	defer e.session.Unlock()

	_, err := e.ensureAlive(ctx, e.cfg.Headless, false)
	if err == nil {
		e.saveCookies()
	}
	return err
}

// Submit runs a batch of assignments through the portal in one mode. The
// batch is windowed and validated before any login or browser work: a
// batch with no submittable dates fails as a precondition without ever
// launching Chrome.
func (e *Engine) Submit(ctx context.Context, mode attendance.Mode, assignments []attendance.Assignment, status submit.StatusFunc) error {
	allowed, err := submit.FilterAllowed(assignments, e.now(), func(msg string) {
		e.log.Warn(msg)
		if status != nil {
			status(msg, submit.SeverityWarning, false)
		}
	})
	if err != nil {
		return apperrors.NewPreconditionError(err.Error())
	}

	e.session.Lock()
	defer e.session.Unlock()

	page, err := e.ensureAlive(ctx, e.cfg.Headless, false)
	if err != nil {
		return err
	}
	if err := e.submit.Submit(ctx, page, mode, allowed, status); err != nil {
		return err
	}
	e.saveCookies()
	return nil
}

// CollectHistory fetches and reconciles the attendance snapshot for the
// current lookback window. A session expiry detected mid-collection (the
// report pages redirect to login) triggers one full re-login and a second
// collection pass before the error is surfaced.
func (e *Engine) CollectHistory(ctx context.Context) (*attendance.Snapshot, error) {
	e.session.Lock()
	defer e.session.Unlock()

	if _, err := e.ensureAlive(ctx, e.cfg.Headless, false); err != nil {
		return nil, err
	}
	snap, err := e.history.Collect(ctx)
	if apperrors.IsSessionExpired(err) {
		e.log.Warn("session expired during collection, logging in again", zap.Error(err))
		e.session.Reset()
		e.auth.ResetBootstrap()
		if _, err := e.ensureAlive(ctx, e.cfg.Headless, true); err != nil {
			return nil, err
		}
		snap, err = e.history.Collect(ctx)
	}
	if err != nil {
		return nil, err
	}
	e.saveCookies()
	return snap, nil
}

// CollectProfile scrapes the employee identity card.
func (e *Engine) CollectProfile(ctx context.Context) (*profile.Profile, error) {
	e.session.Lock()
	defer e.session.Unlock()

	page, err := e.ensureAlive(ctx, e.cfg.Headless, false)
	if err != nil {
		return nil, err
	}
	p, err := e.profile.Collect(page)
	if err != nil {
		return nil, err
	}
	e.saveCookies()
	return p, nil
}
