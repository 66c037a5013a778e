package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chronix/config"
	"chronix/internal/model"
)

const sample = `
scheduling:
  timezone: UTC
  day_start: "08:00"
  day_end: "22:00"
  overdue_policy: defer
  sleep_windows:
    - start_time: "23:30"
      end_time: "07:00"
  breaks:
    - start_time: "12:00"
      end_time: "13:00"
      label: Lunch
      days: [mon, tue, wed, thu, fri]
  meetings:
    - start_time: "10:00"
      end_time: "10:15"
      label: Standup
      days: "mon, wed"
google_docs:
  auth_method: service_account
  credentials_path: /etc/chronix/sa.json
  document_ids:
    - doc-a
    - doc-b
markdown:
  files: [notes/a.md]
sync:
  concurrency: 2
  cache_ttl: 5m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sample)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}

	if cfg.Path != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path)
	}
	if cfg.Scheduling.DayStart != "08:00" || cfg.Scheduling.OverduePolicy != "defer" {
		t.Errorf("unexpected scheduling %+v", cfg.Scheduling)
	}
	if len(cfg.Scheduling.SleepWindows) != 1 || cfg.Scheduling.SleepWindows[0].Kind != string(model.BlockSleep) {
		t.Errorf("sleep window should default to kind sleep: %+v", cfg.Scheduling.SleepWindows)
	}
	if got := cfg.Scheduling.Meetings[0].Days; len(got) != 2 || got[1] != "wed" {
		t.Errorf("comma separated days not split: %v", got)
	}
	if got := cfg.GoogleDocs.DocumentIDs; len(got) != 2 || got[0] != "doc-a" {
		t.Errorf("unexpected document ids %v", got)
	}
	if cfg.GoogleDocs.AuthMethod != config.AuthMethodServiceAccount {
		t.Errorf("unexpected auth method %q", cfg.GoogleDocs.AuthMethod)
	}
	if cfg.Sync.CacheTTL != 5*time.Minute || cfg.Sync.Concurrency != 2 {
		t.Errorf("unexpected sync config %+v", cfg.Sync)
	}
	// defaults fill in what the file leaves out
	if cfg.GoogleDocs.RequestsPerMinute != 60 || cfg.HTTPServer.Port != 8080 {
		t.Errorf("defaults not applied: %+v %+v", cfg.GoogleDocs, cfg.HTTPServer)
	}

	recurring, err := cfg.Scheduling.Recurring()
	if err != nil {
		t.Fatalf("Recurring: %v", err)
	}
	if len(recurring) != 3 {
		t.Fatalf("expected 3 recurring blocks, got %d", len(recurring))
	}
	if recurring[2].Label != "Standup" || len(recurring[2].Days) != 2 || recurring[2].Days[0] != time.Monday {
		t.Errorf("unexpected meeting block %+v", recurring[2])
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, sample)
	t.Setenv("CHRONIX_LOGGER_LEVEL", "debug")
	t.Setenv("CHRONIX_GOOGLE_DOCS_DOCUMENT_IDS", "x, y ,z")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("expected env override, got %q", cfg.Logger.Level)
	}
	if got := cfg.GoogleDocs.DocumentIDs; len(got) != 3 || got[1] != "y" {
		t.Errorf("expected env document ids, got %v", got)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "default is valid", mutate: func(c *config.Config) {}},
		{name: "bad timezone", mutate: func(c *config.Config) { c.Scheduling.Timezone = "Mars/Olympus" }, wantErr: "scheduling.timezone"},
		{name: "inverted window", mutate: func(c *config.Config) { c.Scheduling.DayStart = "18:00"; c.Scheduling.DayEnd = "09:00" }, wantErr: "must be before"},
		{name: "bad clock", mutate: func(c *config.Config) { c.Scheduling.DayEnd = "25:00" }, wantErr: "scheduling.day_end"},
		{name: "bad policy", mutate: func(c *config.Config) { c.Scheduling.OverduePolicy = "never" }, wantErr: "overdue_policy"},
		{
			name: "zero length block",
			mutate: func(c *config.Config) {
				c.Scheduling.Breaks = append(c.Scheduling.Breaks, config.TimeBlockConfig{Start: "15:00", End: "15:00", Kind: "break"})
			},
			wantErr: "scheduling.breaks[1]",
		},
		{
			name: "unknown kind",
			mutate: func(c *config.Config) {
				c.Scheduling.Meetings = []config.TimeBlockConfig{{Start: "15:00", End: "16:00", Kind: "party"}}
			},
			wantErr: "kind",
		},
		{
			name: "unknown weekday",
			mutate: func(c *config.Config) {
				c.Scheduling.Meetings = []config.TimeBlockConfig{{Start: "15:00", End: "16:00", Kind: "meeting", Days: []string{"funday"}}}
			},
			wantErr: "funday",
		},
		{name: "bad auth", mutate: func(c *config.Config) { c.GoogleDocs.AuthMethod = "magic" }, wantErr: "auth_method"},
		{name: "bad concurrency", mutate: func(c *config.Config) { c.Sync.Concurrency = 0 }, wantErr: "sync.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := config.WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := config.WriteDefault(path, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := config.WriteDefault(path, true); err != nil {
		t.Fatalf("forced WriteDefault: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Scheduling.Breaks) != 1 || cfg.Scheduling.Breaks[0].Label != "Lunch" || len(cfg.Scheduling.Breaks[0].Days) != 5 {
		t.Errorf("expected the weekday lunch break, got %+v", cfg.Scheduling.Breaks)
	}
	if len(cfg.Scheduling.SleepWindows) != 1 || cfg.Scheduling.SleepWindows[0].Start != "23:00" {
		t.Errorf("expected the overnight sleep window, got %+v", cfg.Scheduling.SleepWindows)
	}
}
