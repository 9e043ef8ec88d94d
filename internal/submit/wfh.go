package submit

import (
	"context"
	"fmt"
	"strings"

	"amon/internal/attendance"
	apperrors "amon/internal/errors"
	"amon/internal/portal"

	"github.com/chromedp/chromedp/kb"
)

const leaveDateLayout = "02/01/2006"

// submitWFH files a one-day work-from-home leave through the apply-leave
// form. Every date field edit triggers a partial postback that can re-render
// the form and raise a modal, so each fill is followed by a Tab keypress, a
// progress drain and a message dismiss before the next field is touched.
func (e *Engine) submitWFH(page context.Context, a attendance.Assignment, rep reporter) error {
	key := attendance.DateKey(a.Date)

	if err := e.nav.Goto(page, portal.ScreenApplyLeave); err != nil {
		return err
	}

	if err := e.act.SelectValue(page, portal.SelLeaveType, portal.WFHLeaveTypeValue); err != nil {
		return apperrors.NewPortalError("selecting leave type", err)
	}
	if err := e.drainAndDismiss(page); err != nil {
		return err
	}

	date := a.Date.Format(leaveDateLayout)
	if err := e.fillLeaveDate(page, portal.SelLeaveFromDate, date); err != nil {
		return err
	}
	if err := e.fillLeaveDate(page, portal.SelLeaveToDate, date); err != nil {
		return err
	}

	if err := e.act.SelectValue(page, portal.SelLeaveDayPart, SpanAvailability(a.Span)); err != nil {
		return apperrors.NewPortalError("selecting day part", err)
	}
	if err := e.drainAndDismiss(page); err != nil {
		return err
	}

	if err := e.act.SetValue(page, portal.SelLeaveReason, e.cfg.WFHRemarks); err != nil {
		return apperrors.NewPortalError("filling reason", err)
	}

	// Postbacks from the date fields sometimes wipe the reason textarea; a
	// blank reason is rejected server-side, so re-fill right before submit.
	reason, err := e.act.Value(page, portal.SelLeaveReason)
	if err != nil {
		return apperrors.NewPortalError("reading reason", err)
	}
	if strings.TrimSpace(reason) == "" {
		if err := e.act.SetValue(page, portal.SelLeaveReason, e.cfg.WFHRemarks); err != nil {
			return apperrors.NewPortalError("re-filling reason", err)
		}
	}

	_ = e.act.Sleep(page, e.cfg.SettleDelay)

	if err := e.act.ClickJS(page, portal.SelLeaveApply); err != nil {
		return apperrors.NewPortalError("submitting leave", err)
	}
	if err := e.nav.DrainProgress(page); err != nil {
		return err
	}
	msg, err := e.nav.DismissMessage(page)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(msg), portal.ReasonMandatoryMsg) {
		rep.emit(fmt.Sprintf("%s: portal rejected empty reason", key), SeverityWarning, true)
		return nil
	}

	rep.emit(fmt.Sprintf("%s: submitted (wfh, %s)", key, a.Span), SeverityInfo, true)
	return nil
}

// fillLeaveDate sets a date input and flushes the resulting postback. The
// Tab keypress commits the value the same way a user leaving the field would.
func (e *Engine) fillLeaveDate(page context.Context, selector, date string) error {
	if err := e.act.SetValue(page, selector, date); err != nil {
		return apperrors.NewPortalError("filling date field", err)
	}
	if err := e.act.KeyPress(page, kb.Tab); err != nil {
		return apperrors.NewPortalError("tabbing out of date field", err)
	}
	return e.drainAndDismiss(page)
}

func (e *Engine) drainAndDismiss(page context.Context) error {
	if err := e.nav.DrainProgress(page); err != nil {
		return err
	}
	_, err := e.nav.DismissMessage(page)
	return err
}
