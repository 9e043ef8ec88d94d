package browser

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// StoredCookie is the cookie persistence format: a JSON array of these is
// written after every successful authenticated operation and loaded into
// each fresh browser context.
type StoredCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds; <= 0 means session cookie
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
}

// SaveCookies serializes the current context's cookies to the persistence
// file. Failures are logged and swallowed by the caller: a stale cookie
// cache only costs one extra login.
func (s *Session) SaveCookies() error {
	if !s.running {
		return nil
	}

	var cookies []*network.Cookie
	err := chromedp.Run(s.primaryCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}

	stored := make([]StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}

	if err := WriteCookieFile(s.cfg.CookieFile, stored); err != nil {
		return err
	}
	s.log.Debug("cookies persisted", zap.Int("count", len(stored)))
	return nil
}

// loadCookies restores persisted cookies into the freshly created context.
// A missing or corrupt cookie file is "no cookies", not an error worth
// failing the launch over.
func (s *Session) loadCookies() error {
	stored, err := ReadCookieFile(s.cfg.CookieFile)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return nil
	}

	params := make([]*network.CookieParam, 0, len(stored))
	for _, c := range stored {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &exp
		}
		params = append(params, p)
	}

	err = chromedp.Run(s.primaryCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return err
	}
	s.log.Debug("cookies restored", zap.Int("count", len(params)))
	return nil
}

// WriteCookieFile writes the stored-cookie array as JSON.
func WriteCookieFile(path string, cookies []StoredCookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadCookieFile reads a stored-cookie array. A missing file yields an
// empty slice and no error; corrupt content is an error the caller logs
// and otherwise ignores.
func ReadCookieFile(path string) ([]StoredCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cookies []StoredCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}
