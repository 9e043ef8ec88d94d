package submit

import (
	"context"
	"fmt"
	"strconv"

	"amon/internal/attendance"
	apperrors "amon/internal/errors"
	"amon/internal/portal"
)

// submitWFO regularizes one past office day through the calendar popup.
func (e *Engine) submitWFO(page context.Context, a attendance.Assignment, rep reporter) error {
	key := attendance.DateKey(a.Date)

	if err := e.nav.Goto(page, portal.ScreenRegularize); err != nil {
		return err
	}

	// The month dropdown is only touched when it differs from the target
	// cycle; selecting the already-selected value still triggers a spurious
	// postback on this portal.
	cycle := attendance.CycleValue(a.Date)
	current, err := e.act.Value(page, portal.SelRegMonthDrop)
	if err != nil {
		return apperrors.NewPortalError("reading month dropdown", err)
	}
	if current != cycle {
		if err := e.act.SelectValue(page, portal.SelRegMonthDrop, cycle); err != nil {
			return apperrors.NewPortalError("selecting cycle "+cycle, err)
		}
		if err := e.nav.DrainProgress(page); err != nil {
			return err
		}
	}

	clicked, err := e.clickDayLink(page, a.Date.Day())
	if err != nil {
		return apperrors.NewPortalError("opening day popup", err)
	}
	if !clicked {
		rep.emit(fmt.Sprintf("%s: no clickable calendar link, skipping", key), SeverityWarning, true)
		return nil
	}
	if err := e.nav.DrainProgress(page); err != nil {
		return err
	}

	visible, err := e.act.WaitVisible(page, portal.SelRegPopup, e.cfg.WaitTimeout)
	if err != nil {
		return apperrors.NewPortalError("waiting for popup", err)
	}
	if !visible {
		rep.emit(fmt.Sprintf("%s: popup never opened, skipping", key), SeverityWarning, true)
		return nil
	}

	locked, err := e.nav.PopupLocked(page)
	if err != nil {
		return err
	}
	if locked {
		rep.emit(fmt.Sprintf("%s: locked by portal, skipping", key), SeverityWarning, true)
		return e.nav.CancelPopup(page)
	}

	if err := e.fillPopup(page, a.Span); err != nil {
		return err
	}

	// Fixed review delay before committing, mirroring a human pausing to
	// eyeball the filled form.
	_ = e.act.Sleep(page, e.cfg.SettleDelay)

	if err := e.act.ClickJS(page, portal.SelRegSubmit); err != nil {
		return apperrors.NewPortalError("submitting popup", err)
	}
	if err := e.nav.DrainProgress(page); err != nil {
		return err
	}
	if _, err := e.nav.DismissMessage(page); err != nil {
		return err
	}

	rep.emit(fmt.Sprintf("%s: submitted (wfo, %s)", key, a.Span), SeverityInfo, true)
	return nil
}

// clickDayLink clicks the first enabled anchor with a real href whose text
// matches the day label. Cells can hold several links for one date; only an
// enabled one is usable, and the first such link wins.
func (e *Engine) clickDayLink(page context.Context, day int) (bool, error) {
	label := strconv.Itoa(day)
	js := fmt.Sprintf(`(() => {
		const cells = document.querySelectorAll(%q);
		for (const td of cells) {
			for (const a of td.querySelectorAll('a')) {
				if ((a.innerText || '').trim() !== %q) continue;
				const href = a.getAttribute('href') || '';
				if (!href || href === '#') continue;
				if (a.hasAttribute('disabled') || a.classList.contains('aspNetDisabled')) continue;
				a.click();
				return true;
			}
		}
		return false;
	})()`, portal.SelRegGridCells, label)

	var clicked bool
	if err := e.act.Evaluate(page, js, &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}

// fillPopup fills the regularize popup's fields for the given span.
func (e *Engine) fillPopup(page context.Context, span attendance.Span) error {
	// Shift is only changed when it differs, to avoid a triggered postback
	// re-rendering the popup mid-fill.
	currentShift, err := e.act.Value(page, portal.SelRegShift)
	if err != nil {
		return apperrors.NewPortalError("reading shift", err)
	}
	if currentShift != e.cfg.ShiftCode {
		if err := e.act.SelectValue(page, portal.SelRegShift, e.cfg.ShiftCode); err != nil {
			return apperrors.NewPortalError("selecting shift", err)
		}
		if err := e.nav.DrainProgress(page); err != nil {
			return err
		}
	}

	if err := e.act.SetValue(page, portal.SelRegInTime, e.cfg.InTime); err != nil {
		return apperrors.NewPortalError("filling in-time", err)
	}
	if err := e.act.SetValue(page, portal.SelRegOutTime, e.cfg.OutTime); err != nil {
		return apperrors.NewPortalError("filling out-time", err)
	}
	if err := e.act.SelectValue(page, portal.SelRegLeaveType, SpanLeaveType(span)); err != nil {
		return apperrors.NewPortalError("selecting type", err)
	}
	if err := e.act.SetValue(page, portal.SelRegRemarks, e.cfg.WFORemarks); err != nil {
		return apperrors.NewPortalError("filling remarks", err)
	}
	return nil
}
