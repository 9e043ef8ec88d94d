package engine

import (
	"context"
	"testing"
	"time"

	"amon/internal/attendance"
	"amon/internal/config"
	apperrors "amon/internal/errors"
	"amon/internal/submit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// A batch entirely before the current cycle must fail as a precondition
// before any login or browser work: the test engine has no browser and
// would hang on a launch attempt.
func TestSubmitStaleBatchFailsBeforeBrowser(t *testing.T) {
	cfg := &config.Config{Username: "emp001", Password: "hunter2"}
	eng := New(cfg, zap.NewNop())
	defer eng.Close()
	eng.now = func() time.Time { return day(2025, time.July, 25) }

	var warnings []string
	err := eng.Submit(context.Background(), attendance.ModeWFO,
		[]attendance.Assignment{
			{Date: day(2025, time.June, 2), Mode: attendance.ModeWFO},
			{Date: day(2025, time.July, 18), Mode: attendance.ModeWFO},
		},
		func(msg string, sev submit.Severity, _ bool) {
			if sev == submit.SeverityWarning {
				warnings = append(warnings, msg)
			}
		})

	require.Error(t, err)
	assert.True(t, apperrors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "2025-07-21")

	// Each dropped date was reported before the batch was rejected.
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "2025-06-02")
	assert.Contains(t, warnings[1], "2025-07-18")
}

func TestSubmitStaleBatchWithNilStatus(t *testing.T) {
	cfg := &config.Config{Username: "emp001", Password: "hunter2"}
	eng := New(cfg, zap.NewNop())
	defer eng.Close()
	eng.now = func() time.Time { return day(2025, time.July, 25) }

	err := eng.Submit(context.Background(), attendance.ModeWFH,
		[]attendance.Assignment{{Date: day(2025, time.May, 5), Mode: attendance.ModeWFH}}, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsPrecondition(err))
}
