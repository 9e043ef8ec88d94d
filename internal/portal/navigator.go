package portal

import (
	"context"
	"strings"

	"amon/internal/config"
	apperrors "amon/internal/errors"

	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

// Navigator sequences menu navigation between portal screens. It never
// owns the page: callers pass the chromedp context they acquired from the
// session driver while holding the session lock.
type Navigator struct {
	cfg *config.Config
	act Actions
	log *zap.Logger
}

// NewNavigator creates a navigator over the given action surface.
func NewNavigator(cfg *config.Config, act Actions, log *zap.Logger) *Navigator {
	return &Navigator{cfg: cfg, act: act, log: log.Named("portal")}
}

func (n *Navigator) settle(ctx context.Context) {
	_ = n.act.Sleep(ctx, n.cfg.SettleDelay+n.cfg.SlowMo)
}

// OnScreen reports whether the page is already showing the screen, by URL
// substring first and the screen's marker element as fallback.
func (n *Navigator) OnScreen(ctx context.Context, screen Screen) (bool, error) {
	url, err := n.act.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	if strings.Contains(url, screen.URLMarker) {
		return true, nil
	}
	return n.act.IsVisible(ctx, screen.Marker)
}

// Goto brings the primary page to the given screen. When already there the
// page is reloaded in place, which is cheaper and also clears any stale
// partial-postback state left by a previous operation.
func (n *Navigator) Goto(ctx context.Context, screen Screen) error {
	here, err := n.OnScreen(ctx, screen)
	if err != nil {
		return apperrors.NewPortalError("checking current screen", err)
	}
	if here {
		n.log.Debug("already on screen, reloading", zap.String("screen", screen.Name))
		if err := n.act.Reload(ctx); err != nil {
			return apperrors.NewPortalError("reloading "+screen.Name, err)
		}
		n.settle(ctx)
		return n.verify(ctx, screen)
	}

	if err := n.EnsureOnHome(ctx); err != nil {
		return err
	}

	for _, anchor := range screen.MenuPath {
		if err := n.act.ClickJS(ctx, anchor); err != nil {
			return apperrors.NewPortalError("clicking menu anchor "+anchor, err)
		}
		n.settle(ctx)
	}
	if err := n.DrainProgress(ctx); err != nil {
		return err
	}
	return n.verify(ctx, screen)
}

// verify confirms the screen's marker element rendered.
func (n *Navigator) verify(ctx context.Context, screen Screen) error {
	visible, err := n.act.WaitVisible(ctx, screen.Marker, n.cfg.WaitTimeout)
	if err != nil {
		return apperrors.NewPortalError("verifying "+screen.Name, err)
	}
	if !visible {
		return apperrors.NewPortalError("screen "+screen.Name+" did not render", nil)
	}
	return nil
}

// EnsureOnHome forces the primary page back to the home screen: dismiss any
// open panel with Escape, confirm we are not on the login page, then click
// the home anchor, falling back to a full reload of the portal root when
// the anchor is not visible within the wait bound.
func (n *Navigator) EnsureOnHome(ctx context.Context) error {
	if err := n.act.KeyPress(ctx, kb.Escape); err != nil {
		return apperrors.NewPortalError("sending escape", err)
	}

	url, err := n.act.CurrentURL(ctx)
	if err != nil {
		return apperrors.NewPortalError("reading url", err)
	}
	if strings.Contains(url, URLLogin) {
		return apperrors.NewSessionExpiredError("on login page instead of home")
	}

	anchor, found, err := n.act.FirstVisible(ctx, HomeAnchorProbes, n.cfg.WaitTimeout)
	if err != nil {
		return apperrors.NewPortalError("probing for home anchor", err)
	}
	if found {
		if err := n.act.ClickJS(ctx, anchor.Selector); err != nil {
			return apperrors.NewPortalError("clicking home anchor", err)
		}
		n.settle(ctx)
		return nil
	}

	n.log.Warn("home anchor not visible, reloading portal root")
	navCtx, cancel := context.WithTimeout(ctx, n.cfg.NavigationTimeout)
	defer cancel()
	if err := n.act.Navigate(navCtx, n.cfg.BaseURL); err != nil {
		return apperrors.NewPortalError("reloading portal root", err)
	}
	n.settle(ctx)
	return nil
}
