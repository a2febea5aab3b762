package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if cfg.Reminders.BatchSize != 200 {
		t.Errorf("batch size = %d", cfg.Reminders.BatchSize)
	}
	if len(cfg.Reminders.Windows) != 2 {
		t.Fatalf("windows = %d, want 2 defaults", len(cfg.Reminders.Windows))
	}
	if cfg.Reminders.Windows[0].Label != "3_days" || cfg.Reminders.Windows[1].Label != "1_day" {
		t.Errorf("default windows = %+v", cfg.Reminders.Windows)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
timezone: Europe/Rome
calendar:
  calendar_id: salon@group.calendar.google.com
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timezone != "Europe/Rome" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if cfg.Calendar.CalendarID != "salon@group.calendar.google.com" {
		t.Errorf("calendar id = %q", cfg.Calendar.CalendarID)
	}
	if cfg.Calendar.HorizonDays != 30 {
		t.Errorf("horizon = %d, want default 30", cfg.Calendar.HorizonDays)
	}
	if cfg.Sync.Cron != "*/15 * * * *" {
		t.Errorf("sync cron = %q", cfg.Sync.Cron)
	}
	if cfg.Location().String() != "Europe/Rome" {
		t.Errorf("location = %s", cfg.Location())
	}
}

func TestLoadCustomWindows(t *testing.T) {
	path := writeConfig(t, `
reminders:
  batch_size: 50
  windows:
    - label: same_day
      lead_days: 0
      human: today
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reminders.BatchSize != 50 {
		t.Errorf("batch size = %d", cfg.Reminders.BatchSize)
	}
	if len(cfg.Reminders.Windows) != 1 || cfg.Reminders.Windows[0].Label != "same_day" {
		t.Fatalf("windows = %+v", cfg.Reminders.Windows)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, "timezone: Mars/Olympus\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}

func TestLoadRejectsWindowWithoutLabel(t *testing.T) {
	path := writeConfig(t, `
reminders:
  windows:
    - lead_days: 2
      human: 2 days
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a window without label")
	}
}
