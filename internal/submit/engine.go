package submit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"amon/internal/attendance"
	"amon/internal/config"
	"amon/internal/portal"

	"go.uber.org/zap"
)

// Engine submits batches of date assignments through the portal's forms.
// One batch uses a single mode: the WFO and WFH workflows are disjoint
// screens and interleaving them would thrash menu navigation.
type Engine struct {
	cfg *config.Config
	nav *portal.Navigator
	act portal.Actions
	log *zap.Logger
}

// NewEngine creates a submission engine.
func NewEngine(cfg *config.Config, nav *portal.Navigator, act portal.Actions, log *zap.Logger) *Engine {
	return &Engine{cfg: cfg, nav: nav, act: act, log: log.Named("submit")}
}

// FilterAllowed normalizes spans, drops assignments dated before the
// current attendance cycle's start (warning per drop), and returns the
// survivors in ascending date order. An empty result is an error: the
// portal would reject those dates anyway, and failing up front beats a
// confusing mid-batch failure.
func FilterAllowed(assignments []attendance.Assignment, ref time.Time, warn func(string)) ([]attendance.Assignment, error) {
	boundary := attendance.CycleStart(ref)

	allowed := make([]attendance.Assignment, 0, len(assignments))
	for _, a := range assignments {
		a.Span = attendance.NormalizeSpan(string(a.Span))
		if a.Date.Before(boundary) {
			if warn != nil {
				warn(fmt.Sprintf("dropping %s: before current cycle start %s",
					attendance.DateKey(a.Date), attendance.DateKey(boundary)))
			}
			continue
		}
		allowed = append(allowed, a)
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("no assignments fall inside the current attendance cycle (starts %s)",
			attendance.DateKey(boundary))
	}

	sort.Slice(allowed, func(i, j int) bool {
		return allowed[i].Date.Before(allowed[j].Date)
	})
	return allowed, nil
}

// SpanLeaveType maps a day span to the regularize popup's type dropdown
// value: present/present, present/absent, absent/present.
func SpanLeaveType(span attendance.Span) string {
	switch span {
	case attendance.SpanFirstHalf:
		return "PA"
	case attendance.SpanSecondHalf:
		return "AP"
	default:
		return "PP"
	}
}

// SpanAvailability maps a day span to the apply-leave form's day-part
// dropdown value.
func SpanAvailability(span attendance.Span) string {
	switch span {
	case attendance.SpanFirstHalf:
		return "1"
	case attendance.SpanSecondHalf:
		return "2"
	default:
		return "0"
	}
}

// Submit runs one batch of a single mode against an acquired page. The
// caller must hold the session lock, have verified the login, and have
// passed the assignments through FilterAllowed: window checks belong to
// the caller so an all-stale batch can be rejected before any browser
// work starts.
//
// Per-date operations are best effort: a failure on one date reports a
// warning and continues. Cancellation is observed between dates and does
// not roll back submissions already sent; the caller re-derives actual
// state from a fresh history snapshot.
func (e *Engine) Submit(ctx context.Context, page context.Context, mode attendance.Mode, assignments []attendance.Assignment, status StatusFunc) error {
	rep := reporter{fn: status, log: e.log}

	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			rep.emit("batch cancelled", SeverityWarning, false)
			return err
		}

		var submitErr error
		switch mode {
		case attendance.ModeWFH:
			submitErr = e.submitWFH(page, a, rep)
		default:
			submitErr = e.submitWFO(page, a, rep)
		}
		if submitErr != nil {
			// Skip and continue; the true outcome is only knowable from the
			// next history snapshot anyway.
			rep.emit(fmt.Sprintf("%s: %v", attendance.DateKey(a.Date), submitErr), SeverityWarning, true)
		}
	}
	return nil
}
