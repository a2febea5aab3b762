package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CalendarConfig — подключение к удалённому календарю.
type CalendarConfig struct {
	// CredentialsFile — путь к JSON сервисного аккаунта Google.
	// Пустая строка или отсутствующий файл = шлюз не сконфигурирован.
	CredentialsFile string `yaml:"credentials_file"`

	// CalendarID — идентификатор календаря (обычно адрес вида xxx@group.calendar.google.com).
	CalendarID string `yaml:"calendar_id"`

	// HorizonDays — сколько дней вперёд забирать события при синхронизации.
	HorizonDays int `yaml:"horizon_days"`
}

// WindowConfig — одно окно напоминаний.
type WindowConfig struct {
	// Label — машинная метка окна, ключ идемпотентности в reminder_logs.
	Label string `yaml:"label"`

	// LeadDays — за сколько дней до записи срабатывает окно.
	LeadDays int `yaml:"lead_days"`

	// Human — человекочитаемая подстановка для {$days}.
	Human string `yaml:"human"`
}

// RemindersConfig — настройки движка рассылки.
type RemindersConfig struct {
	Cron      string         `yaml:"cron"`
	BatchSize int            `yaml:"batch_size"`
	Windows   []WindowConfig `yaml:"windows"`
}

// SyncConfig — настройки движка синхронизации.
type SyncConfig struct {
	Cron string `yaml:"cron"`
}

// Config — конфигурация приложения (без БД — она в env, см. db.go).
type Config struct {
	// Timezone — IANA-зона салона, в ней считаются окна и форматируется время.
	Timezone string `yaml:"timezone"`

	Calendar  CalendarConfig  `yaml:"calendar"`
	Sync      SyncConfig      `yaml:"sync"`
	Reminders RemindersConfig `yaml:"reminders"`
}

// Default возвращает конфигурацию с дефолтами: два окна напоминаний
// (за 3 дня и за 1 день), синхронизация каждые 15 минут, рассылка раз в час.
func Default() *Config {
	return &Config{
		Timezone: "UTC",
		Calendar: CalendarConfig{
			HorizonDays: 30,
		},
		Sync: SyncConfig{
			Cron: "*/15 * * * *",
		},
		Reminders: RemindersConfig{
			Cron:      "0 * * * *",
			BatchSize: 200,
			Windows: []WindowConfig{
				{Label: "3_days", LeadDays: 3, Human: "3 days"},
				{Label: "1_day", LeadDays: 1, Human: "1 day"},
			},
		},
	}
}

// Load читает YAML-конфиг по пути path. Отсутствующий файл — не ошибка,
// возвращаются дефолты. Частично заполненный файл дополняется дефолтами.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Timezone == "" {
		cfg.Timezone = def.Timezone
	}
	if cfg.Calendar.HorizonDays <= 0 {
		cfg.Calendar.HorizonDays = def.Calendar.HorizonDays
	}
	if cfg.Sync.Cron == "" {
		cfg.Sync.Cron = def.Sync.Cron
	}
	if cfg.Reminders.Cron == "" {
		cfg.Reminders.Cron = def.Reminders.Cron
	}
	if cfg.Reminders.BatchSize <= 0 {
		cfg.Reminders.BatchSize = def.Reminders.BatchSize
	}
	if len(cfg.Reminders.Windows) == 0 {
		cfg.Reminders.Windows = def.Reminders.Windows
	}
}

func validate(cfg *Config) error {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	for _, w := range cfg.Reminders.Windows {
		if w.Label == "" {
			return fmt.Errorf("reminder window without label")
		}
		if w.LeadDays < 0 {
			return fmt.Errorf("reminder window %q: negative lead_days", w.Label)
		}
	}
	return nil
}

// Location возвращает загруженную таймзону. Валидность проверена в Load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
