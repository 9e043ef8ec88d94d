package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"amon/internal/attendance"
	"amon/internal/browser"
	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/portal"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Aux tab names. The tabs live as long as the browser context and are
// reused across collections.
const (
	tabRegularize  = "regularize"
	tabLeaveStatus = "leave_status"
)

// Collector drives the two report pages and reconciles their output into a
// snapshot. It borrows the session's auxiliary tabs so the primary page's
// state (and any half-open popup on it) is never disturbed.
type Collector struct {
	cfg     *config.Config
	session *browser.Session
	nav     *portal.Navigator
	log     *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewCollector creates a history collector.
func NewCollector(cfg *config.Config, session *browser.Session, nav *portal.Navigator, log *zap.Logger) *Collector {
	return &Collector{
		cfg:     cfg,
		session: session,
		nav:     nav,
		log:     log.Named("history"),
		now:     time.Now,
	}
}

// Collect runs both extraction passes and merges them. The caller must hold
// the session lock. Cancellation is observed at the start of each phase;
// a cancelled collection returns ctx.Err with no partial snapshot.
func (c *Collector) Collect(ctx context.Context) (*attendance.Snapshot, error) {
	from, to := attendance.LookbackWindow(c.now())
	c.log.Info("collecting attendance history",
		zap.String("from", attendance.DateKey(from)),
		zap.String("to", attendance.DateKey(to)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	regEntries, err := c.collectRegularize(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	leaveEntries, err := c.collectLeaveStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}

	snapshot := &attendance.Snapshot{
		FetchedAt: c.now(),
		From:      from,
		To:        to,
		Days:      attendance.Merge(regEntries, leaveEntries),
	}
	c.log.Info("history collected", zap.Int("days", len(snapshot.Days)))
	return snapshot, nil
}

// collectRegularize walks every cycle dropdown value spanning the window
// and scans the attendance grid under each.
func (c *Collector) collectRegularize(ctx context.Context, from, to time.Time) (map[string]attendance.HistoryEntry, error) {
	page, err := c.session.AuxPage(tabRegularize)
	if err != nil {
		return nil, apperrors.NewPortalError("acquiring regularize tab", err)
	}
	if err := c.navigate(ctx, page, portal.ScreenRegularize); err != nil {
		return nil, err
	}

	entries := make(map[string]attendance.HistoryEntry)
	for _, cycle := range attendance.CycleValuesSpanning(from, to) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := browser.SelectValue(page, portal.SelRegMonthDrop, cycle); err != nil {
			c.log.Warn("could not select cycle, skipping", zap.String("cycle", cycle), zap.Error(err))
			continue
		}
		if err := c.nav.DrainProgress(page); err != nil {
			return nil, err
		}

		cells, err := c.extractGridCells(page)
		if err != nil {
			return nil, apperrors.NewPortalError("extracting grid cells", err)
		}

		cycleEntries := ParseRegularizeCells(cells, from, to)
		if len(cycleEntries) == 0 && len(cells) > 0 {
			// Heuristic pass came up empty on a non-empty grid: log samples
			// so new portal markup can be diagnosed from the field.
			c.log.Warn("cycle yielded no entries",
				zap.String("cycle", cycle),
				zap.Int("cells", len(cells)),
				zap.Any("samples", SampleCells(cells, 3)))
		}
		for key, entry := range cycleEntries {
			entries[key] = entry
		}
	}
	return entries, nil
}

// collectLeaveStatus scans the flat leave-status table.
func (c *Collector) collectLeaveStatus(ctx context.Context, from, to time.Time) (map[string]attendance.HistoryEntry, error) {
	page, err := c.session.AuxPage(tabLeaveStatus)
	if err != nil {
		return nil, apperrors.NewPortalError("acquiring leave-status tab", err)
	}
	if err := c.navigate(ctx, page, portal.ScreenLeaveStatus); err != nil {
		return nil, err
	}

	rows, err := c.extractLeaveRows(page)
	if err != nil {
		return nil, apperrors.NewPortalError("extracting leave rows", err)
	}
	return ParseLeaveRows(rows, from, to), nil
}

// navigate loads a report screen directly by URL and waits for its marker
// element. The aux tabs share the authenticated context's cookies, so menu
// navigation is unnecessary for these read-only screens.
func (c *Collector) navigate(ctx, page context.Context, screen portal.Screen) error {
	navCtx, cancel := context.WithTimeout(page, c.cfg.NavigationTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(c.cfg.BaseURL+screen.URLMarker))
	cancel()
	if err != nil {
		return apperrors.NewPortalError("navigating to "+screen.Name, err)
	}

	url, err := browser.CurrentURL(page)
	if err != nil {
		return apperrors.NewPortalError("reading url", err)
	}
	if strings.Contains(url, portal.URLLogin) {
		return apperrors.NewSessionExpiredError("report page redirected to login")
	}

	ready, err := browser.WaitVisible(page, screen.Marker, c.cfg.WaitTimeout)
	if err != nil {
		return apperrors.NewPortalError("waiting for "+screen.Name, err)
	}
	if !ready {
		return apperrors.NewPortalError(fmt.Sprintf("screen %s did not render", screen.Name), nil)
	}
	return ctx.Err()
}

func (c *Collector) extractGridCells(page context.Context) ([]GridCell, error) {
	var cells []GridCell
	js := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(td => ({
		text: td.innerText || '',
		title: td.getAttribute('title') || ''
	}))`, portal.SelRegGridCells)
	if err := chromedp.Run(page, chromedp.Evaluate(js, &cells)); err != nil {
		return nil, err
	}
	return cells, nil
}

func (c *Collector) extractLeaveRows(page context.Context) ([]LeaveRow, error) {
	var rows []LeaveRow
	js := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(tr =>
		Array.from(tr.cells || []).map(c => (c.innerText || '').trim())
	)`, portal.SelLeaveStatusRows)
	if err := chromedp.Run(page, chromedp.Evaluate(js, &rows)); err != nil {
		return nil, err
	}
	return rows, nil
}
