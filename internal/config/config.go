// Package config provides configuration for the portal automation engine.
//
// Configuration sources, in order of precedence:
//  1. Explicit options passed by the caller (highest)
//  2. Environment variables (a local .env file is loaded first)
//  3. The stored config file read through viper
//  4. Hard-coded defaults (lowest)
//
// Refresh re-applies all four tiers, so a running process picks up changed
// environment values; with no external change Refresh is idempotent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Known shift codes and their default in/out times ("HHMM"). The portal's
// shift dropdown carries these codes; the engine pre-fills the matching
// times when the user has not set explicit ones.
var shiftTimes = map[string][2]string{
	"GEN": {"0900", "1800"},
	"FS":  {"0700", "1600"},
	"SS":  {"1400", "2300"},
	"NS":  {"2200", "0700"},
}

// Config holds all engine configuration. Immutable between Refresh calls.
type Config struct {
	// Portal endpoint and credentials
	BaseURL  string
	Username string
	Password string

	// Browser behavior
	Headless bool
	SlowMo   time.Duration

	// Submission defaults
	ShiftCode  string // shift dropdown value, maps to default in/out times
	InTime     string // "HHMM", overrides the shift default when set
	OutTime    string // "HHMM", overrides the shift default when set
	WFORemarks string
	WFHRemarks string

	// Wait bounds
	NavigationTimeout time.Duration // page loads
	WaitTimeout       time.Duration // element visibility
	ProgressTimeout   time.Duration // async postback progress indicators
	SettleDelay       time.Duration // fixed pause after clicks and submits

	// Files owned by the CLI shell
	CookieFile  string
	SnapshotDir string

	// Logging
	LogLevel string
	LogFile  string

	// Watch mode
	RefreshInterval time.Duration
	HealthPort      string
	MaxLoginRetries int
	LoginRetryDelay time.Duration

	// Telegram alerts (optional; disabled when token or chat is empty)
	TelegramBotToken string
	TelegramChatID   string
	TelegramDebug    bool
}

// Option overrides one field explicitly, taking precedence over every other
// source. Options are re-applied on Refresh.
type Option func(*Config)

// WithHeadless forces the headless flag regardless of environment or file.
func WithHeadless(headless bool) Option {
	return func(c *Config) { c.Headless = headless }
}

// WithCredentials forces the portal credentials.
func WithCredentials(username, password string) Option {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithBaseURL forces the portal root URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithSlowMo forces the diagnostic slow-motion delay.
func WithSlowMo(d time.Duration) Option {
	return func(c *Config) { c.SlowMo = d }
}

// Load builds the configuration from all four tiers and validates it.
func Load(opts ...Option) (*Config, error) {
	cfg, err := load(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh rebuilds the configuration from the current environment and file
// state, re-applying the same explicit options.
func (c *Config) Refresh(opts ...Option) error {
	fresh, err := load(opts...)
	if err != nil {
		return err
	}
	if err := fresh.Validate(); err != nil {
		return err
	}
	*c = *fresh
	return nil
}

func load(opts ...Option) (*Config, error) {
	// .env values back-fill the environment without displacing real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("amon")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/amon")
	}
	// A missing stored config is normal; only the env and defaults apply then.
	_ = v.ReadInConfig()

	cfg := &Config{
		BaseURL:  getString(v, "AMON_BASE_URL", "portal.base_url", "https://hrportal.example.com/"),
		Username: getString(v, "AMON_USERNAME", "portal.username", ""),
		Password: getString(v, "AMON_PASSWORD", "portal.password", ""),

		Headless: getBool(v, "AMON_HEADLESS", "browser.headless", true),
		SlowMo:   getDuration(v, "AMON_SLOWMO", "browser.slowmo", 0),

		ShiftCode:  getString(v, "AMON_SHIFT_CODE", "submit.shift_code", "GEN"),
		InTime:     getString(v, "AMON_IN_TIME", "submit.in_time", ""),
		OutTime:    getString(v, "AMON_OUT_TIME", "submit.out_time", ""),
		WFORemarks: getString(v, "AMON_WFO_REMARKS", "submit.wfo_remarks", "Worked from office"),
		WFHRemarks: getString(v, "AMON_WFH_REMARKS", "submit.wfh_remarks", "Worked from home"),

		NavigationTimeout: getDuration(v, "AMON_NAVIGATION_TIMEOUT", "timeouts.navigation", 60*time.Second),
		WaitTimeout:       getDuration(v, "AMON_WAIT_TIMEOUT", "timeouts.wait", 20*time.Second),
		ProgressTimeout:   getDuration(v, "AMON_PROGRESS_TIMEOUT", "timeouts.progress", 45*time.Second),
		SettleDelay:       getDuration(v, "AMON_SETTLE_DELAY", "timeouts.settle", 2*time.Second),

		CookieFile:  getString(v, "AMON_COOKIE_FILE", "files.cookies", "cookies.json"),
		SnapshotDir: getString(v, "AMON_SNAPSHOT_DIR", "files.snapshots", "snapshots"),

		LogLevel: getString(v, "AMON_LOG_LEVEL", "log.level", "info"),
		LogFile:  getString(v, "AMON_LOG_FILE", "log.file", ""),

		RefreshInterval: getDuration(v, "AMON_REFRESH_INTERVAL", "watch.interval", 30*time.Minute),
		HealthPort:      getString(v, "AMON_HEALTH_PORT", "watch.health_port", "8080"),
		MaxLoginRetries: getInt(v, "AMON_MAX_LOGIN_RETRIES", "watch.max_login_retries", 3),
		LoginRetryDelay: getDuration(v, "AMON_LOGIN_RETRY_DELAY", "watch.login_retry_delay", 5*time.Second),

		TelegramBotToken: getString(v, "AMON_TELEGRAM_BOT_TOKEN", "telegram.bot_token", ""),
		TelegramChatID:   getString(v, "AMON_TELEGRAM_CHAT_ID", "telegram.chat_id", ""),
		TelegramDebug:    getBool(v, "AMON_TELEGRAM_DEBUG", "telegram.debug", false),
	}

	// Explicit options win over everything above.
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.applyShiftDefaults()
	return cfg, nil
}

// applyShiftDefaults fills InTime/OutTime from the shift code when the user
// supplied no explicit times. Unknown shift codes fall back to GEN hours.
func (c *Config) applyShiftDefaults() {
	times, ok := shiftTimes[c.ShiftCode]
	if !ok {
		times = shiftTimes["GEN"]
	}
	if c.InTime == "" {
		c.InTime = times[0]
	}
	if c.OutTime == "" {
		c.OutTime = times[1]
	}
}

// HasCredentials reports whether both username and password are present.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// TelegramEnabled reports whether alerting is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Validate checks that values the engine depends on are sensible.
// Credentials are deliberately not required here: read-only diagnostics can
// run without them and privileged operations check separately.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("portal base URL cannot be empty")
	}
	if len(c.InTime) != 4 || len(c.OutTime) != 4 {
		return fmt.Errorf("in/out times must be HHMM, got %q/%q", c.InTime, c.OutTime)
	}
	if c.NavigationTimeout <= 0 || c.WaitTimeout <= 0 || c.ProgressTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1m, got %v", c.RefreshInterval)
	}
	return nil
}

// KnownShiftCodes returns the shift codes the engine ships defaults for.
func KnownShiftCodes() []string {
	codes := make([]string, 0, len(shiftTimes))
	for code := range shiftTimes {
		codes = append(codes, code)
	}
	return codes
}

// Tier helpers: environment beats the stored file, which beats the default.

func getString(v *viper.Viper, envKey, fileKey, def string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if v.IsSet(fileKey) {
		return v.GetString(fileKey)
	}
	return def
}

func getBool(v *viper.Viper, envKey, fileKey string, def bool) bool {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	if v.IsSet(fileKey) {
		return v.GetBool(fileKey)
	}
	return def
}

func getInt(v *viper.Viper, envKey, fileKey string, def int) int {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	if v.IsSet(fileKey) {
		return v.GetInt(fileKey)
	}
	return def
}

func getDuration(v *viper.Viper, envKey, fileKey string, def time.Duration) time.Duration {
	if val := os.Getenv(envKey); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	if v.IsSet(fileKey) {
		return v.GetDuration(fileKey)
	}
	return def
}
