package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Probe is one named selector strategy. Navigator code evaluates ordered
// probe lists with FirstVisible instead of nesting try/catch chains: the
// portal renders the same logical element under different markup depending
// on server mood, and the first strategy that works wins.
type Probe struct {
	Name     string
	Selector string
}

const pollInterval = 250 * time.Millisecond

// visibleJS reports whether the first match for a selector is actually
// rendered. offsetParent catches display:none anywhere up the tree.
func visibleJS(selector string) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const st = window.getComputedStyle(el);
		if (st.display === 'none' || st.visibility === 'hidden') return false;
		return el.offsetParent !== null || st.position === 'fixed';
	})()`, selector)
}

// IsVisible probes a selector once, returning false (not an error) when the
// element is absent or hidden.
func IsVisible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	err := chromedp.Run(ctx, chromedp.Evaluate(visibleJS(selector), &visible))
	if err != nil {
		return false, err
	}
	return visible, nil
}

// WaitVisible polls until the selector is visible or the timeout elapses.
// Returns false on timeout; errors are reserved for a dead page.
func WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		visible, err := IsVisible(ctx, selector)
		if err != nil {
			return false, err
		}
		if visible {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// WaitHidden polls until the selector is absent or hidden, or the timeout
// elapses. Used to drain the portal's async progress overlays.
func WaitHidden(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		visible, err := IsVisible(ctx, selector)
		if err != nil {
			return false, err
		}
		if !visible {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// FirstVisible evaluates the probes in order, repeatedly, until one is
// visible or the timeout elapses. The zero Probe and false mean none hit.
func FirstVisible(ctx context.Context, probes []Probe, timeout time.Duration) (Probe, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		for _, p := range probes {
			visible, err := IsVisible(ctx, p.Selector)
			if err != nil {
				return Probe{}, false, err
			}
			if visible {
				return p, true, nil
			}
		}
		if time.Now().After(deadline) {
			return Probe{}, false, nil
		}
		select {
		case <-ctx.Done():
			return Probe{}, false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Text returns the trimmed innerText of the first match, or "" when absent.
func Text(ctx context.Context, selector string) (string, error) {
	var text string
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? el.innerText : '';
	})()`, selector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &text)); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ClickJS dispatches a click straight through the DOM, bypassing hit
// testing. The portal's menu anchors are geometrically occluded by overlay
// panels, so a coordinate-based click misses them.
func ClickJS(ctx context.Context, selector string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)
	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// SetValue fills an input and fires the input/change events the portal's
// client-side validators listen on.
func SetValue(ctx context.Context, selector, value string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.value = %q;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, selector, value)
	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// Value reads an input's current value, or "" when absent.
func Value(ctx context.Context, selector string) (string, error) {
	var value string
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? (el.value || '') : '';
	})()`, selector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &value)); err != nil {
		return "", err
	}
	return value, nil
}

// SelectValue sets a dropdown's value and fires change, which is what
// triggers the portal's partial postback for select controls.
func SelectValue(ctx context.Context, selector, value string) error {
	return SetValue(ctx, selector, value)
}

// IsDisabled reports whether the first match carries disabled or
// aria-disabled. Used to detect records the portal has locked.
func IsDisabled(ctx context.Context, selector string) (bool, error) {
	var disabled bool
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return true;
		return el.disabled === true || el.getAttribute('aria-disabled') === 'true';
	})()`, selector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &disabled)); err != nil {
		return false, err
	}
	return disabled, nil
}

// CurrentURL returns the primary document's location.
func CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}
