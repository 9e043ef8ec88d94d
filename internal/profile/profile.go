// Package profile scrapes the logged-in employee's identity card from the
// portal's general-detail screen.
package profile

import (
	"context"
	"fmt"
	"strings"

	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/portal"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Profile is the subset of the general-detail screen worth surfacing.
type Profile struct {
	Name             string `json:"name"`
	EmployeeID       string `json:"employee_id"`
	Designation      string `json:"designation"`
	ReportingManager string `json:"reporting_manager"`
}

// labelFields maps the portal's row labels (lowercased, colon stripped) to
// the struct field each one fills.
var labelFields = map[string]func(*Profile, string){
	"employee name":     func(p *Profile, v string) { p.Name = v },
	"name":              func(p *Profile, v string) { p.Name = v },
	"employee code":     func(p *Profile, v string) { p.EmployeeID = v },
	"employee id":       func(p *Profile, v string) { p.EmployeeID = v },
	"designation":       func(p *Profile, v string) { p.Designation = v },
	"reporting manager": func(p *Profile, v string) { p.ReportingManager = v },
}

// Collector fetches the profile.
type Collector struct {
	cfg *config.Config
	nav *portal.Navigator
	log *zap.Logger
}

// NewCollector creates a profile collector.
func NewCollector(cfg *config.Config, nav *portal.Navigator, log *zap.Logger) *Collector {
	return &Collector{cfg: cfg, nav: nav, log: log.Named("profile")}
}

// Collect navigates to the general-detail screen and reads the key/value
// table. Missing fields stay empty rather than failing: the portal hides
// rows per role, and a partial card is still useful.
func (c *Collector) Collect(page context.Context) (*Profile, error) {
	if err := c.nav.Goto(page, portal.ScreenProfile); err != nil {
		return nil, err
	}

	rows, err := c.extractRows(page)
	if err != nil {
		return nil, apperrors.NewPortalError("reading profile table", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewPortalError("profile table is empty", nil)
	}

	p := &Profile{}
	matched := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := normalizeLabel(row[0])
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		if set, ok := labelFields[label]; ok {
			set(p, value)
			matched++
		}
	}
	if matched == 0 {
		return nil, apperrors.NewPortalError("no known labels found in profile table", nil)
	}

	c.log.Info("profile collected",
		zap.String("employee_id", p.EmployeeID),
		zap.Int("fields", matched))
	return p, nil
}

// extractRows pulls every table row as a slice of trimmed cell texts.
func (c *Collector) extractRows(page context.Context) ([][]string, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		const table = document.querySelector(%q);
		if (!table) return out;
		for (const tr of table.querySelectorAll('tr')) {
			const row = [];
			for (const cell of tr.querySelectorAll('td, th')) {
				row.push((cell.innerText || '').trim());
			}
			if (row.length) out.push(row);
		}
		return out;
	})()`, portal.SelProfileTable)

	var rows [][]string
	if err := chromedp.Run(page, chromedp.Evaluate(js, &rows)); err != nil {
		return nil, err
	}
	return rows, nil
}

func normalizeLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ":")
	return strings.ToLower(strings.TrimSpace(s))
}
