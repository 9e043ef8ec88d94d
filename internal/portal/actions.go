package portal

import (
	"context"
	"time"

	"amon/internal/browser"
)

// Actions is the page-automation surface the navigator, the login manager
// and the submission engine are built on. The production implementation
// drives chromedp; tests substitute a scripted fake so the portal flows can
// be exercised without a browser.
type Actions interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	KeyPress(ctx context.Context, key string) error
	Sleep(ctx context.Context, d time.Duration) error
	Evaluate(ctx context.Context, js string, out interface{}) error

	IsVisible(ctx context.Context, selector string) (bool, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	WaitHidden(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	FirstVisible(ctx context.Context, probes []browser.Probe, timeout time.Duration) (browser.Probe, bool, error)
	IsDisabled(ctx context.Context, selector string) (bool, error)

	Text(ctx context.Context, selector string) (string, error)
	Value(ctx context.Context, selector string) (string, error)
	SetValue(ctx context.Context, selector, value string) error
	SelectValue(ctx context.Context, selector, value string) error
	ClickJS(ctx context.Context, selector string) error
}
