package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrConfigExists = errors.New("config file already exists")

const fileHeader = `# chronix configuration
#
# Task lists live in Google Docs tabs (or Markdown notes). Each tab needs one
# checkbox line declaring the list, followed by task lines in the same list:
#
#   [ ] TASKS ::: duration; external_deadline; user_deadline
#   [ ] Implement TUI ::: 3hours; 2026-01-19T12:00; 2026-01-18T18:00
#
# Deadlines without an offset use scheduling.timezone. Use - for no deadline.
# Every key can be overridden from the environment, e.g. CHRONIX_LOGGER_LEVEL=debug.

`

// fileConfig is the on-disk layout written by WriteDefault and Marshal.
type fileConfig struct {
	Scheduling struct {
		Timezone      string            `yaml:"timezone"`
		DayStart      string            `yaml:"day_start"`
		DayEnd        string            `yaml:"day_end"`
		OverduePolicy string            `yaml:"overdue_policy"`
		SleepWindows  []TimeBlockConfig `yaml:"sleep_windows"`
		Breaks        []TimeBlockConfig `yaml:"breaks"`
		Meetings      []TimeBlockConfig `yaml:"meetings"`
	} `yaml:"scheduling"`
	GoogleDocs struct {
		AuthMethod        string   `yaml:"auth_method"`
		CredentialsPath   string   `yaml:"credentials_path"`
		TokenPath         string   `yaml:"token_path"`
		DocumentIDs       []string `yaml:"document_ids"`
		RequestsPerMinute int      `yaml:"requests_per_minute"`
	} `yaml:"google_docs"`
	GoogleCalendar struct {
		Enabled    bool   `yaml:"enabled"`
		CalendarID string `yaml:"calendar_id"`
	} `yaml:"google_calendar"`
	Markdown struct {
		Files []string `yaml:"files"`
	} `yaml:"markdown"`
	Sync struct {
		Concurrency int      `yaml:"concurrency"`
		CacheSize   int      `yaml:"cache_size"`
		CacheTTL    string   `yaml:"cache_ttl"`
		Timeout     string   `yaml:"timeout"`
		ExcludeTabs []string `yaml:"exclude_tabs"`
	} `yaml:"sync"`
	HTTPServer struct {
		Port           int      `yaml:"port"`
		Mode           string   `yaml:"mode"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SyncRatePerMin int      `yaml:"sync_rate_per_min"`
	} `yaml:"http_server"`
	Logger struct {
		Level        string `yaml:"level"`
		Mode         string `yaml:"mode"`
		Encoding     string `yaml:"encoding"`
		ColorEnabled bool   `yaml:"color_enabled"`
	} `yaml:"logger"`
}

// Default returns the configuration written by `config init`.
func Default() *Config {
	dir := DefaultDir()
	weekdays := []string{"mon", "tue", "wed", "thu", "fri"}
	return &Config{
		Environment: EnvironmentConfig{Name: "development"},
		HTTPServer: HTTPServerConfig{
			Port:            8080,
			Mode:            "release",
			AllowedOrigins:  []string{"*"},
			SyncRatePerMin:  6,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{Level: "warn", Mode: "development", Encoding: "console", ColorEnabled: true},
		Scheduling: SchedulingConfig{
			Timezone:      "Local",
			DayStart:      "00:00",
			DayEnd:        "24:00",
			OverduePolicy: "urgent",
			SleepWindows:  []TimeBlockConfig{{Start: "23:00", End: "07:00", Kind: "sleep", Label: "Sleep"}},
			Breaks:        []TimeBlockConfig{{Start: "12:00", End: "13:00", Kind: "break", Label: "Lunch", Days: weekdays}},
		},
		GoogleDocs: GoogleDocsConfig{
			AuthMethod:        AuthMethodOAuth,
			CredentialsPath:   filepath.Join(dir, "credentials.json"),
			TokenPath:         filepath.Join(dir, "token.json"),
			RequestsPerMinute: 60,
		},
		GoogleCalendar: GoogleCalendarConfig{CalendarID: "primary"},
		Sync: SyncConfig{
			Concurrency: 4,
			CacheSize:   64,
			CacheTTL:    30 * time.Minute,
			Timeout:     time.Minute,
		},
	}
}

// Marshal renders cfg as YAML in the config file layout.
func Marshal(cfg *Config) ([]byte, error) {
	var f fileConfig
	f.Scheduling.Timezone = cfg.Scheduling.Timezone
	f.Scheduling.DayStart = cfg.Scheduling.DayStart
	f.Scheduling.DayEnd = cfg.Scheduling.DayEnd
	f.Scheduling.OverduePolicy = cfg.Scheduling.OverduePolicy
	f.Scheduling.SleepWindows = cfg.Scheduling.SleepWindows
	f.Scheduling.Breaks = cfg.Scheduling.Breaks
	f.Scheduling.Meetings = cfg.Scheduling.Meetings

	f.GoogleDocs.AuthMethod = cfg.GoogleDocs.AuthMethod
	f.GoogleDocs.CredentialsPath = cfg.GoogleDocs.CredentialsPath
	f.GoogleDocs.TokenPath = cfg.GoogleDocs.TokenPath
	f.GoogleDocs.DocumentIDs = cfg.GoogleDocs.DocumentIDs
	f.GoogleDocs.RequestsPerMinute = cfg.GoogleDocs.RequestsPerMinute
	f.GoogleCalendar.Enabled = cfg.GoogleCalendar.Enabled
	f.GoogleCalendar.CalendarID = cfg.GoogleCalendar.CalendarID
	f.Markdown.Files = cfg.Markdown.Files

	f.Sync.Concurrency = cfg.Sync.Concurrency
	f.Sync.CacheSize = cfg.Sync.CacheSize
	f.Sync.CacheTTL = cfg.Sync.CacheTTL.String()
	f.Sync.Timeout = cfg.Sync.Timeout.String()
	f.Sync.ExcludeTabs = cfg.Sync.ExcludeTabs

	f.HTTPServer.Port = cfg.HTTPServer.Port
	f.HTTPServer.Mode = cfg.HTTPServer.Mode
	f.HTTPServer.AllowedOrigins = cfg.HTTPServer.AllowedOrigins
	f.HTTPServer.SyncRatePerMin = cfg.HTTPServer.SyncRatePerMin

	f.Logger.Level = cfg.Logger.Level
	f.Logger.Mode = cfg.Logger.Mode
	f.Logger.Encoding = cfg.Logger.Encoding
	f.Logger.ColorEnabled = cfg.Logger.ColorEnabled

	return yaml.Marshal(&f)
}

// WriteDefault writes the default configuration to path.
// An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	body, err := Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), body...), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
