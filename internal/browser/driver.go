package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Driver is the chromedp-backed page-automation implementation. It is
// stateless: every method operates on the context the caller acquired from
// the Session while holding the session lock.
type Driver struct{}

// NewDriver creates a driver.
func NewDriver() Driver { return Driver{} }

func (Driver) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (Driver) Reload(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.Reload())
}

func (Driver) CurrentURL(ctx context.Context) (string, error) {
	return CurrentURL(ctx)
}

func (Driver) KeyPress(ctx context.Context, key string) error {
	return chromedp.Run(ctx, chromedp.KeyEvent(key))
}

func (Driver) Sleep(ctx context.Context, d time.Duration) error {
	return chromedp.Run(ctx, chromedp.Sleep(d))
}

func (Driver) Evaluate(ctx context.Context, js string, out interface{}) error {
	return chromedp.Run(ctx, chromedp.Evaluate(js, out))
}

func (Driver) IsVisible(ctx context.Context, selector string) (bool, error) {
	return IsVisible(ctx, selector)
}

func (Driver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	return WaitVisible(ctx, selector, timeout)
}

func (Driver) WaitHidden(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	return WaitHidden(ctx, selector, timeout)
}

func (Driver) FirstVisible(ctx context.Context, probes []Probe, timeout time.Duration) (Probe, bool, error) {
	return FirstVisible(ctx, probes, timeout)
}

func (Driver) IsDisabled(ctx context.Context, selector string) (bool, error) {
	return IsDisabled(ctx, selector)
}

func (Driver) Text(ctx context.Context, selector string) (string, error) {
	return Text(ctx, selector)
}

func (Driver) Value(ctx context.Context, selector string) (string, error) {
	return Value(ctx, selector)
}

func (Driver) SetValue(ctx context.Context, selector, value string) error {
	return SetValue(ctx, selector, value)
}

func (Driver) SelectValue(ctx context.Context, selector, value string) error {
	return SelectValue(ctx, selector, value)
}

func (Driver) ClickJS(ctx context.Context, selector string) error {
	return ClickJS(ctx, selector)
}
