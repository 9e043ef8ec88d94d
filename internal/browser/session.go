// Package browser owns the automated browser lifecycle for the portal
// engine: one Chrome process, one primary interactive tab and a pool of
// named auxiliary tabs used for read-only history scraping.
//
// The session is a serialized resource. Every public engine operation takes
// the session lock before touching a page, because concurrent postbacks
// against a single stateful ASP.NET session corrupt each other's view-state.
package browser

import (
	"context"
	"sync"

	"amon/internal/config"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Session is the single owned browser instance. Created lazily on first
// AcquirePage, torn down and relaunched whenever the requested headless mode
// changes or an acquisition step fails.
type Session struct {
	mu  sync.Mutex
	cfg *config.Config
	log *zap.Logger

	running  bool
	headless bool

	allocCtx    context.Context
	allocCancel context.CancelFunc

	primaryCtx    context.Context
	primaryCancel context.CancelFunc

	aux map[string]*auxTab
}

type auxTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession creates an unstarted session. The browser launches on the
// first AcquirePage call.
func NewSession(cfg *config.Config, log *zap.Logger) *Session {
	return &Session{
		cfg: cfg,
		log: log.Named("browser"),
		aux: make(map[string]*auxTab),
	}
}

// Lock serializes portal operations. Callers must pair it with Unlock in a
// defer so a panic or early return never leaves the session held.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// AcquirePage returns a chromedp context for the primary page, launching or
// relaunching the browser as needed. Callers must hold the session lock.
//
// Any failure mid-acquisition triggers a full teardown before the error is
// returned, so no caller ever holds a half-initialized session.
func (s *Session) AcquirePage(headless bool) (context.Context, error) {
	if s.running && s.headless != headless {
		s.log.Info("headless mode changed, relaunching browser",
			zap.Bool("headless", headless))
		s.teardown()
	}
	if s.running && s.primaryCtx.Err() != nil {
		s.log.Warn("primary page is gone, relaunching browser")
		s.teardown()
	}

	if !s.running {
		if err := s.launch(headless); err != nil {
			s.teardown()
			return nil, err
		}
	}
	return s.primaryCtx, nil
}

// launch starts the browser process, creates the primary tab and loads any
// persisted cookies into the fresh context.
func (s *Session) launch(headless bool) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("window-size", "1366,900"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	primaryCtx, primaryCancel := chromedp.NewContext(allocCtx)

	// An empty Run forces the allocator to actually start Chrome, so a
	// broken install surfaces here instead of inside the first operation.
	startCtx, cancel := context.WithTimeout(primaryCtx, s.cfg.NavigationTimeout)
	err := chromedp.Run(startCtx)
	cancel()
	if err != nil {
		primaryCancel()
		allocCancel()
		return err
	}

	s.allocCtx = allocCtx
	s.allocCancel = allocCancel
	s.primaryCtx = primaryCtx
	s.primaryCancel = primaryCancel
	s.headless = headless
	s.running = true

	// Best effort: a missing or corrupt cookie file only costs one login.
	if err := s.loadCookies(); err != nil {
		s.log.Warn("could not restore cookies", zap.Error(err))
	}

	s.log.Info("browser launched", zap.Bool("headless", headless))
	return nil
}

// AuxPage returns the named auxiliary tab, creating it on first use and
// recreating it if it was found closed. Callers must hold the session lock
// and must have acquired the primary page first.
func (s *Session) AuxPage(name string) (context.Context, error) {
	if !s.running {
		if _, err := s.AcquirePage(s.headlessOrDefault()); err != nil {
			return nil, err
		}
	}

	if tab, ok := s.aux[name]; ok {
		if tab.ctx.Err() == nil {
			return tab.ctx, nil
		}
		s.log.Debug("auxiliary page was closed, recreating", zap.String("tab", name))
		tab.cancel()
		delete(s.aux, name)
	}

	ctx, cancel := chromedp.NewContext(s.primaryCtx)
	startCtx, startCancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	err := chromedp.Run(startCtx)
	startCancel()
	if err != nil {
		cancel()
		return nil, err
	}

	s.aux[name] = &auxTab{ctx: ctx, cancel: cancel}
	s.log.Debug("auxiliary page created", zap.String("tab", name))
	return ctx, nil
}

func (s *Session) headlessOrDefault() bool {
	if s.running {
		return s.headless
	}
	return s.cfg.Headless
}

// Reset tears the whole browser down. The next AcquirePage relaunches from
// scratch, which is the engine's only recovery strategy: partial browser
// state (stale view-state tokens, orphaned popups) is assumed unrecoverable.
func (s *Session) Reset() {
	s.teardown()
}

// Close shuts the session down for good.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
}

// teardown cancels every context best-effort. Failures during teardown are
// swallowed: the process either relaunches or exits afterward.
func (s *Session) teardown() {
	for name, tab := range s.aux {
		tab.cancel()
		delete(s.aux, name)
	}
	if s.primaryCancel != nil {
		s.primaryCancel()
		s.primaryCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.primaryCtx = nil
	s.allocCtx = nil
	s.running = false
}
