package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Cache      CacheConfig      `yaml:"cache"`
	Facility   FacilityConfig   `yaml:"facility"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Density    DensityConfig    `yaml:"density"`
	Mindbody   MindbodyConfig   `yaml:"mindbody"`
	Snapshots  SnapshotConfig   `yaml:"snapshots"`
	Collector  CollectorConfig  `yaml:"collector"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port" validate:"gt=0,lt=65536"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// CacheConfig controls how long upstream responses are reused.
type CacheConfig struct {
	WeightroomTTLSeconds   int           `yaml:"weightroom_ttl_seconds"`
	ClassesTTLSeconds      int           `yaml:"classes_ttl_seconds"`
	CleanupIntervalSeconds int           `yaml:"cleanup_interval_seconds"`
	WeightroomTTL          time.Duration `yaml:"-"`
	ClassesTTL             time.Duration `yaml:"-"`
	CleanupInterval        time.Duration `yaml:"-"`
}

// FacilityConfig describes the gym itself: where it is and when it is open.
type FacilityConfig struct {
	Name            string         `yaml:"name"`
	Timezone        string         `yaml:"timezone" validate:"required"`
	DefaultLocation string         `yaml:"default_location"`
	Hours           []DayHours     `yaml:"hours" validate:"dive"`
	HoursDisplay    []HoursDisplay `yaml:"hours_display" validate:"dive"`
}

// DayHours is the opening window for one weekday. Weekday 0 is Sunday.
type DayHours struct {
	Weekday int    `yaml:"weekday" validate:"gte=0,lte=6"`
	Open    string `yaml:"open" validate:"required,datetime=15:04"`
	Close   string `yaml:"close" validate:"required,datetime=15:04"`
}

// HoursDisplay is one human-readable row of the weekly hours table.
type HoursDisplay struct {
	Label string `yaml:"label" json:"label"`
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close" json:"close"`
}

// UpstreamConfig holds HTTP client settings shared by all providers.
type UpstreamConfig struct {
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	HTTPProxy      string        `yaml:"http_proxy"`
}

// DensityConfig points at the occupancy sensor provider.
type DensityConfig struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	DisplayID  string `yaml:"display_id" validate:"required"`
	SpaceID    string `yaml:"space_id" validate:"required"`
	ShareToken string `yaml:"share_token" validate:"required"`
}

// MindbodyConfig points at the class-widget provider.
type MindbodyConfig struct {
	BaseURL  string `yaml:"base_url" validate:"required,url"`
	WidgetID string `yaml:"widget_id" validate:"required"`
}

// SnapshotConfig selects where capacity snapshots are kept.
type SnapshotConfig struct {
	Backend       string `yaml:"backend" validate:"oneof=file database"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Retention is how long a snapshot is kept before it is pruned.
func (s SnapshotConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

// CollectorConfig schedules background status refreshes.
type CollectorConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" validate:"oneof=sqlite postgres"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether push alerts can be sent.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

var defaultHours = []DayHours{
	{Weekday: 0, Open: "09:00", Close: "22:00"},
	{Weekday: 1, Open: "06:00", Close: "23:00"},
	{Weekday: 2, Open: "06:00", Close: "23:00"},
	{Weekday: 3, Open: "06:00", Close: "23:00"},
	{Weekday: 4, Open: "06:00", Close: "23:00"},
	{Weekday: 5, Open: "06:00", Close: "22:00"},
	{Weekday: 6, Open: "08:00", Close: "22:00"},
}

var defaultHoursDisplay = []HoursDisplay{
	{Label: "Mon – Thu", Open: "6:00 AM", Close: "11:00 PM"},
	{Label: "Fri", Open: "6:00 AM", Close: "10:00 PM"},
	{Label: "Sat", Open: "8:00 AM", Close: "10:00 PM"},
	{Label: "Sun", Open: "9:00 AM", Close: "10:00 PM"},
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of a fully defaulted configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Facility.Timezone); err != nil {
		return fmt.Errorf("invalid facility timezone %q: %w", cfg.Facility.Timezone, err)
	}
	if cfg.NeedsDatabase() && cfg.Database.DSN == "" {
		return fmt.Errorf("invalid configuration: database.dsn is required for the %s driver", cfg.Database.Driver)
	}
	return nil
}

// NeedsDatabase reports whether any component stores data in the database.
func (c *Config) NeedsDatabase() bool {
	return c.Snapshots.Backend == "database" || c.Push.Enabled()
}

// applyEnv lets secrets and deployment-specific values live outside the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DENSITY_SHARE_TOKEN"); v != "" {
		cfg.Density.ShareToken = v
	}
	if v := os.Getenv("DENSITY_DISPLAY_ID"); v != "" {
		cfg.Density.DisplayID = v
	}
	if v := os.Getenv("DENSITY_SPACE_ID"); v != "" {
		cfg.Density.SpaceID = v
	}
	if v := os.Getenv("MBO_WIDGET_ID"); v != "" {
		cfg.Mindbody.WidgetID = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		cfg.Push.PublicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" {
		cfg.Push.PrivateKey = v
	}
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}

	if cfg.Cache.WeightroomTTLSeconds <= 0 {
		cfg.Cache.WeightroomTTLSeconds = 30
	}
	if cfg.Cache.ClassesTTLSeconds <= 0 {
		cfg.Cache.ClassesTTLSeconds = 300
	}
	if cfg.Cache.CleanupIntervalSeconds <= 0 {
		cfg.Cache.CleanupIntervalSeconds = 600
	}
	cfg.Cache.WeightroomTTL = time.Duration(cfg.Cache.WeightroomTTLSeconds) * time.Second
	cfg.Cache.ClassesTTL = time.Duration(cfg.Cache.ClassesTTLSeconds) * time.Second
	cfg.Cache.CleanupInterval = time.Duration(cfg.Cache.CleanupIntervalSeconds) * time.Second

	if cfg.Facility.Name == "" {
		cfg.Facility.Name = "RSF weight room"
	}
	if cfg.Facility.Timezone == "" {
		cfg.Facility.Timezone = "America/Los_Angeles"
	}
	if cfg.Facility.DefaultLocation == "" {
		cfg.Facility.DefaultLocation = "UC Berkeley Rec Sports"
	}
	if len(cfg.Facility.Hours) == 0 {
		cfg.Facility.Hours = append([]DayHours(nil), defaultHours...)
	}
	if len(cfg.Facility.HoursDisplay) == 0 {
		cfg.Facility.HoursDisplay = append([]HoursDisplay(nil), defaultHoursDisplay...)
	}

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 10
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	if cfg.Density.BaseURL == "" {
		cfg.Density.BaseURL = "https://api.density.io/v2"
	}
	if cfg.Mindbody.BaseURL == "" {
		cfg.Mindbody.BaseURL = "https://widgets.mindbodyonline.com"
	}

	if cfg.Snapshots.Backend == "" {
		cfg.Snapshots.Backend = "file"
	}
	if cfg.Snapshots.Path == "" {
		cfg.Snapshots.Path = "./data/capacity_history.json"
	}
	if cfg.Snapshots.RetentionDays <= 0 {
		cfg.Snapshots.RetentionDays = 90
	}

	if cfg.Collector.Schedule == "" {
		cfg.Collector.Schedule = "CRON_TZ=" + cfg.Facility.Timezone + " */10 * * * *"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "./data/gymd.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
