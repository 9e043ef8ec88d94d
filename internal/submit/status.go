// Package submit fills and submits the portal's regularize and apply-leave
// forms for batches of date assignments.
package submit

import "go.uber.org/zap"

// Severity classifies a progress callback message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StatusFunc receives progress during a batch submission. advance is true
// when the batch moved one assignment forward (for progress bars).
type StatusFunc func(message string, severity Severity, advance bool)

// reporter wraps an optional StatusFunc with swallow-and-log semantics:
// the callback is best-effort UI plumbing and must never take the engine
// down with it.
type reporter struct {
	fn  StatusFunc
	log *zap.Logger
}

func (r reporter) emit(message string, severity Severity, advance bool) {
	switch severity {
	case SeverityWarning:
		r.log.Warn(message)
	case SeverityError:
		r.log.Error(message)
	default:
		r.log.Info(message)
	}
	if r.fn == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("status callback panicked", zap.Any("panic", p))
		}
	}()
	r.fn(message, severity, advance)
}
