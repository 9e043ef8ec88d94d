package portal

import (
	"context"

	apperrors "amon/internal/errors"

	"go.uber.org/zap"
)

// DrainProgress waits out the portal's async partial-postback indicator.
// If any known progress probe becomes visible within a short grace period,
// we wait (with a long bound) for it to hide again before proceeding;
// racing the next action against an in-flight postback silently corrupts
// the form state.
func (n *Navigator) DrainProgress(ctx context.Context) error {
	probe, visible, err := n.act.FirstVisible(ctx, ProgressProbes, n.cfg.SettleDelay)
	if err != nil {
		return apperrors.NewPortalError("probing progress indicators", err)
	}
	if !visible {
		return nil
	}

	n.log.Debug("progress indicator showing, draining", zap.String("probe", probe.Name))
	hidden, err := n.act.WaitHidden(ctx, probe.Selector, n.cfg.ProgressTimeout)
	if err != nil {
		return apperrors.NewPortalError("waiting for progress to finish", err)
	}
	if !hidden {
		return apperrors.NewPortalError("progress indicator never cleared", nil)
	}
	return nil
}

// DismissMessage closes the generic modal message box the portal may raise
// after any postback. Returns the captured message text ("" when no box was
// showing) so callers can inspect it for known rejection phrases.
func (n *Navigator) DismissMessage(ctx context.Context) (string, error) {
	visible, err := n.act.IsVisible(ctx, SelMessageBox)
	if err != nil {
		return "", apperrors.NewPortalError("probing message box", err)
	}
	if !visible {
		return "", nil
	}

	text, err := n.act.Text(ctx, SelMessageBoxText)
	if err != nil {
		return "", apperrors.NewPortalError("reading message box", err)
	}
	n.log.Info("portal message", zap.String("text", text))

	if err := n.act.ClickJS(ctx, SelMessageBoxClose); err != nil {
		return text, apperrors.NewPortalError("closing message box", err)
	}
	n.settle(ctx)
	return text, nil
}

// PopupLocked reports whether the regularize day popup is visible but has
// its time/shift/type inputs disabled. A locked popup means the portal has
// frozen the record (usually already submitted); the correct action is to
// cancel and report the day as skipped, never to fill a read-only form.
func (n *Navigator) PopupLocked(ctx context.Context) (bool, error) {
	visible, err := n.act.IsVisible(ctx, SelRegPopup)
	if err != nil {
		return false, apperrors.NewPortalError("probing regularize popup", err)
	}
	if !visible {
		return false, nil
	}

	for _, sel := range []string{SelRegInTime, SelRegOutTime, SelRegShift, SelRegLeaveType} {
		disabled, err := n.act.IsDisabled(ctx, sel)
		if err != nil {
			return false, apperrors.NewPortalError("probing popup inputs", err)
		}
		if disabled {
			return true, nil
		}
	}
	return false, nil
}

// CancelPopup closes the regularize popup without submitting.
func (n *Navigator) CancelPopup(ctx context.Context) error {
	if err := n.act.ClickJS(ctx, SelRegCancel); err != nil {
		return apperrors.NewPortalError("cancelling popup", err)
	}
	n.settle(ctx)
	return nil
}
