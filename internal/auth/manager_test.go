package auth

import (
	"context"
	"testing"
	"time"

	"amon/internal/browser"
	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/portal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePage scripts the page the manager classifies: a fixed URL plus
// visibility and text maps keyed by selector.
type fakePage struct {
	url     string
	visible map[string]bool
	texts   map[string]string

	clicks  []string
	sets    map[string]string
	onClick func()
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.url = url
	return nil
}

func (f *fakePage) Reload(context.Context) error { return nil }

func (f *fakePage) CurrentURL(context.Context) (string, error) { return f.url, nil }

func (f *fakePage) KeyPress(context.Context, string) error { return nil }

func (f *fakePage) Sleep(context.Context, time.Duration) error { return nil }

func (f *fakePage) Evaluate(context.Context, string, interface{}) error { return nil }

func (f *fakePage) IsVisible(_ context.Context, sel string) (bool, error) {
	return f.visible[sel], nil
}

func (f *fakePage) WaitVisible(_ context.Context, sel string, _ time.Duration) (bool, error) {
	return f.visible[sel], nil
}

func (f *fakePage) WaitHidden(_ context.Context, sel string, _ time.Duration) (bool, error) {
	return !f.visible[sel], nil
}

func (f *fakePage) FirstVisible(_ context.Context, probes []browser.Probe, _ time.Duration) (browser.Probe, bool, error) {
	for _, p := range probes {
		if f.visible[p.Selector] {
			return p, true, nil
		}
	}
	return browser.Probe{}, false, nil
}

func (f *fakePage) IsDisabled(context.Context, string) (bool, error) { return false, nil }

func (f *fakePage) Text(_ context.Context, sel string) (string, error) {
	return f.texts[sel], nil
}

func (f *fakePage) Value(_ context.Context, sel string) (string, error) {
	return f.sets[sel], nil
}

func (f *fakePage) SetValue(_ context.Context, sel, value string) error {
	if f.sets == nil {
		f.sets = make(map[string]string)
	}
	f.sets[sel] = value
	return nil
}

func (f *fakePage) SelectValue(ctx context.Context, sel, value string) error {
	return f.SetValue(ctx, sel, value)
}

func (f *fakePage) ClickJS(_ context.Context, sel string) error {
	f.clicks = append(f.clicks, sel)
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

func managerConfig() *config.Config {
	return &config.Config{
		BaseURL:  "https://portal.example/Login.aspx",
		Username: "emp001",
		Password: "hunter2",
	}
}

// loginPage is a fake sitting on the login form; the validator label shows
// the given text after the form is submitted.
func loginPage(validatorText string) *fakePage {
	f := &fakePage{
		visible: map[string]bool{},
		texts:   map[string]string{},
	}
	if validatorText != "" {
		f.visible["#lblLoginMessage"] = true
		f.texts["#lblLoginMessage"] = validatorText
	}
	return f
}

func TestEnsureSessionRejectedCredentialsIsUnsuccessful(t *testing.T) {
	fake := loginPage(PortalInvalidCredsPhrase)
	m := NewManager(managerConfig(), fake, zap.NewNop())

	err := m.EnsureSession(context.Background(), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))

	state := m.State()
	assert.Equal(t, StatusUnsuccessful, state.Status)
	assert.Equal(t, genericInvalidCredsMsg, state.Message)

	// The form was actually filled and submitted before the rejection.
	assert.Equal(t, "emp001", fake.sets[portal.SelLoginUser])
	assert.Equal(t, "hunter2", fake.sets[portal.SelLoginPass])
	require.Len(t, fake.clicks, 1)
	assert.Equal(t, portal.SelLoginSubmit, fake.clicks[0])
}

func TestEnsureSessionOtherValidatorTextIsNotInvalidCreds(t *testing.T) {
	fake := loginPage("Account locked. Contact HR.")
	m := NewManager(managerConfig(), fake, zap.NewNop())

	err := m.EnsureSession(context.Background(), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsLoginFailed(err))
	assert.False(t, apperrors.IsInvalidCredentials(err))
	assert.Equal(t, StatusUnsuccessful, m.State().Status)
	assert.Equal(t, "Account locked. Contact HR.", m.State().Message)
}

func TestEnsureSessionLandsOnHome(t *testing.T) {
	fake := loginPage("")
	m := NewManager(managerConfig(), fake, zap.NewNop())

	// Submitting the form redirects to the home page.
	fake.onClick = func() { fake.url = "https://portal.example/Home.aspx" }

	require.NoError(t, m.EnsureSession(context.Background(), true))
	assert.Equal(t, StatusSuccessful, m.State().Status)
}

func TestEnsureSessionMissingCredentials(t *testing.T) {
	cfg := managerConfig()
	cfg.Password = ""
	m := NewManager(cfg, loginPage(""), zap.NewNop())

	err := m.EnsureSession(context.Background(), false)
	require.Error(t, err)
	assert.True(t, apperrors.IsPrecondition(err))
}
