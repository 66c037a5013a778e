package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"chronix/internal/model"
	"chronix/pkg/datemath"
)

const (
	AppName        = "chronix"
	ConfigFileName = "config.yaml"
	EnvPrefix      = "CHRONIX"

	AuthMethodOAuth          = "oauth"
	AuthMethodServiceAccount = "service_account"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Scheduling
	Scheduling SchedulingConfig

	// Document sources
	GoogleDocs     GoogleDocsConfig
	GoogleCalendar GoogleCalendarConfig
	Markdown       MarkdownConfig

	Sync SyncConfig

	// Path is the file the configuration was read from, empty when none was found.
	Path string
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	AllowedOrigins  []string
	SyncRatePerMin  int
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// SchedulingConfig describes the day the scheduler fills.
type SchedulingConfig struct {
	Timezone      string
	DayStart      string // "HH:MM", start of the horizon
	DayEnd        string // "HH:MM", "24:00" allowed
	OverduePolicy string // "urgent" or "defer"
	SleepWindows  []TimeBlockConfig
	Breaks        []TimeBlockConfig
	Meetings      []TimeBlockConfig
}

// TimeBlockConfig is one recurring blocked period.
type TimeBlockConfig struct {
	Start string   `yaml:"start_time"`
	End   string   `yaml:"end_time"`
	Kind  string   `yaml:"kind,omitempty"`
	Label string   `yaml:"label,omitempty"`
	Days  []string `yaml:"days,omitempty"`
}

type GoogleDocsConfig struct {
	AuthMethod        string
	CredentialsPath   string
	TokenPath         string
	DocumentIDs       []string
	RequestsPerMinute int
}

type GoogleCalendarConfig struct {
	Enabled    bool
	CalendarID string
}

type MarkdownConfig struct {
	Files []string
}

type SyncConfig struct {
	Concurrency int
	CacheSize   int
	CacheTTL    time.Duration
	ExcludeTabs []string
	Timeout     time.Duration
}

// DefaultDir returns ~/.config/chronix, honouring XDG_CONFIG_HOME.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(".", "."+AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), ConfigFileName)
}

// Load loads configuration using Viper.
// An explicit path must exist; otherwise the default directory and the
// working directory are searched and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, filepath.Ext(ConfigFileName)))
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{Path: v.ConfigFileUsed()}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.AllowedOrigins = getStringList(v, "http_server.allowed_origins")
	cfg.HTTPServer.SyncRatePerMin = v.GetInt("http_server.sync_rate_per_min")
	cfg.HTTPServer.ShutdownTimeout = v.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Scheduling
	cfg.Scheduling.Timezone = v.GetString("scheduling.timezone")
	cfg.Scheduling.DayStart = v.GetString("scheduling.day_start")
	cfg.Scheduling.DayEnd = v.GetString("scheduling.day_end")
	cfg.Scheduling.OverduePolicy = v.GetString("scheduling.overdue_policy")
	cfg.Scheduling.SleepWindows = getBlocks(v, "scheduling.sleep_windows", string(model.BlockSleep))
	cfg.Scheduling.Breaks = getBlocks(v, "scheduling.breaks", string(model.BlockBreak))
	cfg.Scheduling.Meetings = getBlocks(v, "scheduling.meetings", string(model.BlockMeeting))

	// Google
	cfg.GoogleDocs.AuthMethod = v.GetString("google_docs.auth_method")
	cfg.GoogleDocs.CredentialsPath = expandHome(v.GetString("google_docs.credentials_path"))
	cfg.GoogleDocs.TokenPath = expandHome(v.GetString("google_docs.token_path"))
	cfg.GoogleDocs.DocumentIDs = getStringList(v, "google_docs.document_ids")
	cfg.GoogleDocs.RequestsPerMinute = v.GetInt("google_docs.requests_per_minute")
	cfg.GoogleCalendar.Enabled = v.GetBool("google_calendar.enabled")
	cfg.GoogleCalendar.CalendarID = v.GetString("google_calendar.calendar_id")

	// Markdown
	for _, f := range getStringList(v, "markdown.files") {
		cfg.Markdown.Files = append(cfg.Markdown.Files, expandHome(f))
	}

	// Sync
	cfg.Sync.Concurrency = v.GetInt("sync.concurrency")
	cfg.Sync.CacheSize = v.GetInt("sync.cache_size")
	cfg.Sync.CacheTTL = v.GetDuration("sync.cache_ttl")
	cfg.Sync.ExcludeTabs = getStringList(v, "sync.exclude_tabs")
	cfg.Sync.Timeout = v.GetDuration("sync.timeout")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", string(model.EnvironmentDevelopment))
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "release")
	v.SetDefault("http_server.allowed_origins", []string{"*"})
	v.SetDefault("http_server.sync_rate_per_min", 6)
	v.SetDefault("http_server.shutdown_timeout", "10s")
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("scheduling.timezone", "Local")
	v.SetDefault("scheduling.day_start", "00:00")
	v.SetDefault("scheduling.day_end", "24:00")
	v.SetDefault("scheduling.overdue_policy", "urgent")

	v.SetDefault("google_docs.auth_method", AuthMethodOAuth)
	v.SetDefault("google_docs.credentials_path", filepath.Join(DefaultDir(), "credentials.json"))
	v.SetDefault("google_docs.token_path", filepath.Join(DefaultDir(), "token.json"))
	v.SetDefault("google_docs.requests_per_minute", 60)
	v.SetDefault("google_calendar.calendar_id", "primary")

	v.SetDefault("sync.concurrency", 4)
	v.SetDefault("sync.cache_size", 64)
	v.SetDefault("sync.cache_ttl", "30m")
	v.SetDefault("sync.timeout", "60s")
}

// Validate checks the values Load cannot check by type alone.
func (c *Config) Validate() error {
	var errs []error

	if _, err := datemath.LoadLocation(c.Scheduling.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("scheduling.timezone: %w", err))
	}

	start, errStart := datemath.ParseClock(c.Scheduling.DayStart)
	if errStart != nil {
		errs = append(errs, fmt.Errorf("scheduling.day_start: %w", errStart))
	}
	end, errEnd := datemath.ParseClock(c.Scheduling.DayEnd)
	if errEnd != nil {
		errs = append(errs, fmt.Errorf("scheduling.day_end: %w", errEnd))
	}
	if errStart == nil && errEnd == nil && !start.Before(end) {
		errs = append(errs, fmt.Errorf("scheduling: day_start %s must be before day_end %s", start, end))
	}

	switch c.Scheduling.OverduePolicy {
	case "", "urgent", "defer":
	default:
		errs = append(errs, fmt.Errorf("scheduling.overdue_policy: unknown value %q", c.Scheduling.OverduePolicy))
	}

	for _, group := range []struct {
		key    string
		blocks []TimeBlockConfig
	}{
		{"scheduling.sleep_windows", c.Scheduling.SleepWindows},
		{"scheduling.breaks", c.Scheduling.Breaks},
		{"scheduling.meetings", c.Scheduling.Meetings},
	} {
		for i, b := range group.blocks {
			if err := b.validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", group.key, i, err))
			}
		}
	}

	switch c.GoogleDocs.AuthMethod {
	case AuthMethodOAuth, AuthMethodServiceAccount:
	default:
		errs = append(errs, fmt.Errorf("google_docs.auth_method: must be %q or %q", AuthMethodOAuth, AuthMethodServiceAccount))
	}
	if c.GoogleDocs.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("google_docs.requests_per_minute: must not be negative"))
	}
	if c.Sync.Concurrency <= 0 {
		errs = append(errs, errors.New("sync.concurrency: must be positive"))
	}

	return errors.Join(errs...)
}

func (b TimeBlockConfig) validate() error {
	start, err := datemath.ParseClock(b.Start)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := datemath.ParseClock(b.End)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if start == end {
		return fmt.Errorf("start_time and end_time are both %s", start)
	}
	if start.Hour == 24 {
		return errors.New("start_time cannot be 24:00")
	}
	if !model.ValidBlockKind(model.BlockKind(b.Kind)) {
		return fmt.Errorf("kind: unknown value %q", b.Kind)
	}
	for _, d := range b.Days {
		if _, ok := datemath.ParseWeekday(d); !ok {
			return fmt.Errorf("days: unknown weekday %q", d)
		}
	}
	return nil
}

// AllBlocks returns sleep windows, breaks and meetings in that order.
func (s SchedulingConfig) AllBlocks() []TimeBlockConfig {
	out := make([]TimeBlockConfig, 0, len(s.SleepWindows)+len(s.Breaks)+len(s.Meetings))
	out = append(out, s.SleepWindows...)
	out = append(out, s.Breaks...)
	return append(out, s.Meetings...)
}

// getBlocks reads a list of time blocks. Entries without a kind get defaultKind.
func getBlocks(v *viper.Viper, key, defaultKind string) []TimeBlockConfig {
	raw, ok := v.Get(key).([]interface{})
	if !ok {
		return nil
	}
	var out []TimeBlockConfig
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		b := TimeBlockConfig{
			Start: getStringFromMap(m, "start_time"),
			End:   getStringFromMap(m, "end_time"),
			Kind:  getStringFromMap(m, "kind"),
			Label: getStringFromMap(m, "label"),
			Days:  getStringsFromMap(m, "days"),
		}
		if b.Kind == "" {
			b.Kind = defaultKind
		}
		out = append(out, b)
	}
	return out
}

// getStringList accepts a YAML list or a comma separated string (as set from env).
func getStringList(v *viper.Viper, key string) []string {
	if raw := v.Get(key); raw != nil {
		if s, ok := raw.(string); ok {
			return splitList(s)
		}
	}
	var out []string
	for _, s := range v.GetStringSlice(key) {
		out = append(out, splitList(s)...)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getStringsFromMap(m map[string]interface{}, key string) []string {
	val, ok := m[key]
	if !ok {
		return nil
	}
	switch vv := val.(type) {
	case string:
		return splitList(vv)
	case []interface{}:
		var out []string
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
