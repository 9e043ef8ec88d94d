package auth

import (
	"context"
	"strings"

	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/portal"

	"go.uber.org/zap"
)

// Manager drives credential submission and liveness checks against the
// primary page. It holds the per-process bootstrapped flag; the session
// lock is the caller's responsibility.
type Manager struct {
	cfg *config.Config
	act portal.Actions
	log *zap.Logger

	bootstrapped  bool
	everSucceeded bool
	state         LoginState
}

// NewManager creates a login manager over the given action surface.
func NewManager(cfg *config.Config, act portal.Actions, log *zap.Logger) *Manager {
	return &Manager{
		cfg:   cfg,
		act:   act,
		log:   log.Named("auth"),
		state: LoginState{Status: StatusNotVerified},
	}
}

// State returns the outcome of the most recent login or session check.
func (m *Manager) State() LoginState {
	return m.state
}

// ResetBootstrap clears the per-process verification flag. Called after a
// full browser reset, since a fresh context has no proven session.
func (m *Manager) ResetBootstrap() {
	m.bootstrapped = false
}

// ClassifyPage evaluates the liveness rules in order against the current
// page.
func (m *Manager) ClassifyPage(ctx context.Context) (PageState, error) {
	url, err := m.act.CurrentURL(ctx)
	if err != nil {
		return "", apperrors.NewPortalError("reading url", err)
	}
	if strings.Contains(url, portal.URLLogin) {
		return StateLoginPage, nil
	}
	passVisible, err := m.act.IsVisible(ctx, portal.SelLoginPass)
	if err != nil {
		return "", apperrors.NewPortalError("probing login form", err)
	}
	if passVisible {
		return StateLoginPage, nil
	}

	// The DOM can degrade without the URL changing; a missing home anchor is
	// treated as the login page rather than trusted as authenticated.
	_, homeFound, err := m.act.FirstVisible(ctx, portal.HomeAnchorProbes, m.cfg.SettleDelay)
	if err != nil {
		return "", apperrors.NewPortalError("probing home anchor", err)
	}
	if !homeFound {
		return StateLoginPage, nil
	}

	banner, err := m.act.Text(ctx, portal.SelExpiryBanner)
	if err != nil {
		return "", apperrors.NewPortalError("reading session banner", err)
	}
	if strings.Contains(strings.ToLower(banner), "expired") {
		return StateExpired, nil
	}

	if m.bootstrapped {
		return StateAuthenticatedBootstrapped, nil
	}
	return StateAuthenticatedFresh, nil
}

// EnsureSession makes sure the page is authenticated and alive, logging in
// when needed. Retrying is the caller's job: on failure the caller resets
// the whole browser session and calls again (at most one extra attempt),
// on the assumption that browser state, not the credentials, is the
// likelier problem.
func (m *Manager) EnsureSession(ctx context.Context, force bool) error {
	if !m.cfg.HasCredentials() {
		return apperrors.NewPreconditionError(apperrors.MsgCredentialsMissing)
	}

	if !force && m.bootstrapped {
		ok, err := m.cheapRecheck(ctx)
		if err == nil && ok {
			m.log.Debug("session alive, short-circuiting")
			return nil
		}
		m.log.Info("bootstrapped session failed re-check, logging in again")
	}

	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigationTimeout)
	err := m.act.Navigate(navCtx, m.cfg.BaseURL)
	cancel()
	if err != nil {
		return apperrors.NewPortalError("navigating to portal root", err)
	}
	_ = m.act.Sleep(ctx, m.cfg.SettleDelay)

	state, err := m.ClassifyPage(ctx)
	if err != nil {
		return err
	}
	if state == StateAuthenticatedFresh || state == StateAuthenticatedBootstrapped {
		m.bootstrapped = true
		m.everSucceeded = true
		m.state = LoginState{Status: StatusSuccessful, Message: "existing session"}
		return nil
	}

	return m.loginWithForm(ctx)
}

// cheapRecheck verifies liveness without navigating: not on the login page
// and the home anchor still present.
func (m *Manager) cheapRecheck(ctx context.Context) (bool, error) {
	state, err := m.ClassifyPage(ctx)
	if err != nil {
		return false, err
	}
	return state == StateAuthenticatedFresh || state == StateAuthenticatedBootstrapped, nil
}

// loginWithForm locates the first text input, first password input and
// first submit-like control, fills the credentials, submits and validates.
func (m *Manager) loginWithForm(ctx context.Context) error {
	m.log.Info("submitting login form", zap.String("user", m.cfg.Username))

	if err := m.act.SetValue(ctx, portal.SelLoginUser, m.cfg.Username); err != nil {
		return m.fail("filling username", err)
	}
	if err := m.act.SetValue(ctx, portal.SelLoginPass, m.cfg.Password); err != nil {
		return m.fail("filling password", err)
	}
	if err := m.act.ClickJS(ctx, portal.SelLoginSubmit); err != nil {
		return m.fail("clicking submit", err)
	}
	_ = m.act.Sleep(ctx, m.cfg.SettleDelay)

	return m.validateLoginResult(ctx)
}

// validateLoginResult classifies the post-submit page, in order: a visible
// validator span fails with its text, then the home URL or a visible home
// anchor succeed, otherwise the attempt failed without an explanation.
func (m *Manager) validateLoginResult(ctx context.Context) error {
	probe, visible, err := m.act.FirstVisible(ctx, portal.LoginValidatorProbes, m.cfg.SettleDelay)
	if err != nil {
		return m.fail("probing validator", err)
	}
	if visible {
		text, err := m.act.Text(ctx, probe.Selector)
		if err != nil {
			return m.fail("reading validator", err)
		}
		if IsInvalidCredsText(text) {
			msg := InvalidCredsMessage(m.everSucceeded)
			m.state = LoginState{Status: StatusUnsuccessful, Message: msg}
			le := apperrors.NewLoginFailedError(msg, nil)
			le.InvalidCredentials = true
			return le
		}
		m.state = LoginState{Status: StatusUnsuccessful, Message: text}
		return apperrors.NewLoginFailedError(text, nil)
	}

	url, err := m.act.CurrentURL(ctx)
	if err != nil {
		return m.fail("reading url", err)
	}
	if strings.Contains(url, portal.URLHome) {
		return m.succeed()
	}

	_, homeFound, err := m.act.FirstVisible(ctx, portal.HomeAnchorProbes, m.cfg.WaitTimeout)
	if err != nil {
		return m.fail("probing home anchor", err)
	}
	if homeFound {
		return m.succeed()
	}

	m.state = LoginState{Status: StatusUnsuccessful, Message: "did not reach home page"}
	return apperrors.NewLoginFailedError("did not reach home page", nil)
}

func (m *Manager) succeed() error {
	m.bootstrapped = true
	m.everSucceeded = true
	m.state = LoginState{Status: StatusSuccessful, Message: "login successful"}
	m.log.Info("login verified")
	return nil
}

// fail records an unsuccessful state for transport-level login failures.
// The bootstrapped flag is never set by a failed login.
func (m *Manager) fail(step string, err error) error {
	le := apperrors.NewLoginFailedError(step, err)
	m.state = LoginState{Status: StatusUnsuccessful, Message: le.Error()}
	return le
}
