package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	apperrors "amon/internal/errors"
	"amon/internal/health"
	"amon/internal/notify"
	"amon/internal/observability"
	"amon/internal/render"
	"amon/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchPhoto bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll attendance history and report changes",
	Long: `Watch keeps a reconciled snapshot fresh on a fixed interval,
announces day-level changes over Telegram when configured, and serves
a /health endpoint for supervision.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := observability.L().Named("watch")

		st, err := store.NewSnapshotStore(cfg.SnapshotDir, observability.L())
		if err != nil {
			return err
		}

		tg := notify.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramDebug, observability.L())
		if tg == nil {
			log.Info("telegram not configured, changes are logged only")
		}

		if err := loginWithRetries(ctx, log); err != nil {
			if alertErr := tg.SendCriticalAlert("login", err.Error(), cfg.MaxLoginRetries); alertErr != nil {
				log.Warn("sending alert failed", zap.Error(alertErr))
			}
			return err
		}

		monitor := health.NewMonitor()
		health.StartServer(monitor, cfg.HealthPort, observability.L())

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return runWatchLoop(ctx, log, st, tg, monitor)
		})
		return g.Wait()
	},
}

// loginWithRetries verifies the session before the loop starts, so a bad
// deployment fails loudly instead of alerting on every tick. Invalid
// credentials abort without further attempts.
func loginWithRetries(ctx context.Context, log *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= cfg.MaxLoginRetries; attempt++ {
		if err = eng.EnsureAlive(ctx); err == nil {
			return nil
		}
		if apperrors.IsInvalidCredentials(err) || apperrors.IsPrecondition(err) {
			return err
		}
		log.Warn("initial login failed",
			zap.Int("attempt", attempt),
			zap.Int("max", cfg.MaxLoginRetries),
			zap.Error(err))
		if attempt < cfg.MaxLoginRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.LoginRetryDelay):
			}
		}
	}
	return err
}

// runWatchLoop refreshes immediately, then on every tick until cancelled.
func runWatchLoop(ctx context.Context, log *zap.Logger, st *store.SnapshotStore, tg *notify.Client, monitor *health.Monitor) error {
	refresh := func() {
		if err := refreshOnce(ctx, log, st, tg); err != nil {
			monitor.UpdateRefreshStatus("error: " + err.Error())
			log.Error("refresh failed", zap.Error(err))
			// The alert type tells the operator whether this needs a
			// password change or just patience until the next tick.
			errorType := "refresh"
			switch {
			case apperrors.IsSessionExpired(err):
				errorType = "session expired"
			case apperrors.IsLoginFailed(err):
				errorType = "login failed"
			}
			if alertErr := tg.SendCriticalAlert(errorType, err.Error(), 2); alertErr != nil {
				log.Warn("sending alert failed", zap.Error(alertErr))
			}
			return
		}
		monitor.UpdateRefreshStatus("success")
	}

	refresh()

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("watch loop stopping")
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

// refreshOnce fetches a snapshot, persists it, and reports the diff
// against the previous generation.
func refreshOnce(ctx context.Context, log *zap.Logger, st *store.SnapshotStore, tg *notify.Client) error {
	snap, err := eng.CollectHistory(ctx)
	if err != nil {
		return err
	}

	prev, err := st.Latest()
	if err != nil {
		log.Warn("loading previous snapshot failed", zap.Error(err))
	}
	if err := st.Save(snap); err != nil {
		return err
	}

	changes := store.Diff(prev, snap)
	if len(changes) == 0 {
		log.Info("no changes", zap.Int("days", len(snap.Days)))
		return nil
	}

	log.Info("attendance changed", zap.Int("changes", len(changes)))
	for _, ch := range changes {
		log.Info("day changed",
			zap.String("date", ch.Date),
			zap.String("before", entryLabel(ch.Before)),
			zap.String("after", entryLabel(ch.After)))
	}

	if err := tg.SendChanges(changes); err != nil {
		log.Warn("sending change summary failed", zap.Error(err))
	}
	if watchPhoto {
		png, err := render.RenderCalendar(snap)
		if err != nil {
			log.Warn("rendering calendar failed", zap.Error(err))
		} else if err := tg.SendPhoto(png, fmt.Sprintf("Attendance as of %s", snap.FetchedAt.Format("02 Jan 15:04"))); err != nil {
			log.Warn("sending calendar photo failed", zap.Error(err))
		}
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchPhoto, "photo", false, "attach a calendar image to change notifications")
	rootCmd.AddCommand(watchCmd)
}
