package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hrportal.example.com/", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "GEN", cfg.ShiftCode)
	assert.Equal(t, "0900", cfg.InTime)
	assert.Equal(t, "1800", cfg.OutTime)
	assert.Equal(t, 60*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.False(t, cfg.HasCredentials())
	assert.False(t, cfg.TelegramEnabled())
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("AMON_BASE_URL", "https://portal.test/")
	t.Setenv("AMON_USERNAME", "emp42")
	t.Setenv("AMON_PASSWORD", "hunter2")
	t.Setenv("AMON_HEADLESS", "false")
	t.Setenv("AMON_SHIFT_CODE", "SS")
	t.Setenv("AMON_SLOWMO", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.test/", cfg.BaseURL)
	assert.True(t, cfg.HasCredentials())
	assert.False(t, cfg.Headless)
	assert.Equal(t, "1400", cfg.InTime)
	assert.Equal(t, "2300", cfg.OutTime)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMo)
}

func TestExplicitOptionsBeatEnvironment(t *testing.T) {
	t.Setenv("AMON_HEADLESS", "true")
	t.Setenv("AMON_USERNAME", "fromenv")
	t.Setenv("AMON_PASSWORD", "fromenv")

	cfg, err := Load(WithHeadless(false), WithCredentials("explicit", "secret"))
	require.NoError(t, err)

	assert.False(t, cfg.Headless)
	assert.Equal(t, "explicit", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
}

func TestExplicitTimesBeatShiftDefaults(t *testing.T) {
	t.Setenv("AMON_SHIFT_CODE", "NS")
	t.Setenv("AMON_IN_TIME", "1030")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "1030", cfg.InTime, "explicit time wins")
	assert.Equal(t, "0700", cfg.OutTime, "shift default fills the rest")
}

// Refresh with no external change must be a no-op for every known shift
// code: the resolved in/out times come out identical both times.
func TestRefreshIdempotent(t *testing.T) {
	for _, code := range KnownShiftCodes() {
		t.Run(code, func(t *testing.T) {
			t.Setenv("AMON_SHIFT_CODE", code)

			cfg, err := Load()
			require.NoError(t, err)
			inTime, outTime := cfg.InTime, cfg.OutTime

			require.NoError(t, cfg.Refresh())

			assert.Equal(t, inTime, cfg.InTime)
			assert.Equal(t, outTime, cfg.OutTime)
		})
	}
}

func TestRefreshPicksUpEnvChange(t *testing.T) {
	t.Setenv("AMON_WFO_REMARKS", "before")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "before", cfg.WFORemarks)

	t.Setenv("AMON_WFO_REMARKS", "after")
	require.NoError(t, cfg.Refresh())
	assert.Equal(t, "after", cfg.WFORemarks)
}

func TestUnknownShiftCodeFallsBack(t *testing.T) {
	t.Setenv("AMON_SHIFT_CODE", "ZZ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0900", cfg.InTime)
	assert.Equal(t, "1800", cfg.OutTime)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("AMON_IN_TIME", "9am")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsShortInterval(t *testing.T) {
	t.Setenv("AMON_REFRESH_INTERVAL", "10s")
	_, err := Load()
	assert.Error(t, err)
}
