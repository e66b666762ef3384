package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

// StructuredConfig configures the SQLite store. A zero ReopenInterval keeps an
// open failure sticky for the whole process lifetime.
type StructuredConfig struct {
	Path           string        `yaml:"path" validate:"required"`
	ReopenInterval time.Duration `yaml:"reopenInterval"`
}

// LegacyConfig selects the mirror backend. A positive SyncInterval rewrites
// the mirror from the structured store after failed mirror writes.
type LegacyConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,badger"`
	Path         string        `yaml:"path" validate:"required"`
	Compress     bool          `yaml:"compress"`
	SyncInterval time.Duration `yaml:"syncInterval"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type PremiumConfig struct {
	Passphrase string `yaml:"passphrase" validate:"required"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Structured StructuredConfig `yaml:"structured"`
	Legacy     LegacyConfig     `yaml:"legacy"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Premium    PremiumConfig    `yaml:"premium"`
}
