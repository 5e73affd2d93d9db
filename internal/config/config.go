package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Bridge modes
const (
	BridgeModeFile = "file"
	BridgeModeHTTP = "http"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Rendering configuration
	Render RenderConfig

	// Bridge configuration
	Bridge BridgeConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // 0 disables it; feed streams are long-lived
	ShutdownTimeout time.Duration
}

// RenderConfig holds chunked rendering settings
type RenderConfig struct {
	ChunkSize        int
	YieldInterval    time.Duration
	SubscriberBuffer int
	KeepAlive        time.Duration // ping interval on idle feed streams
}

// BridgeConfig holds settings for the backend that produces session data
type BridgeConfig struct {
	Mode        string // "file" or "http"
	URL         string // http mode: endpoint receiving {"path": ...}
	Timeout     time.Duration
	ArchiveFile string // file mode: archive name inside the requested directory
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", time.Duration(0))
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("RENDER_CHUNK_SIZE", 5)
	v.SetDefault("RENDER_YIELD_INTERVAL", 50*time.Millisecond)
	v.SetDefault("RENDER_SUBSCRIBER_BUFFER", 256)
	v.SetDefault("RENDER_KEEPALIVE", 15*time.Second)

	v.SetDefault("BRIDGE_MODE", BridgeModeFile)
	v.SetDefault("BRIDGE_URL", "")
	v.SetDefault("BRIDGE_TIMEOUT", 10*time.Second)
	v.SetDefault("BRIDGE_ARCHIVE_FILE", "output.json")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from environment variables, layered over the
// YAML file named by CONFIG_FILE when it is set
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile reads configuration from path (optional) and the environment.
// Environment variables win over file values. File keys use the
// environment variable names, e.g. "render_chunk_size: 10".
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Render: RenderConfig{
			ChunkSize:        v.GetInt("RENDER_CHUNK_SIZE"),
			YieldInterval:    v.GetDuration("RENDER_YIELD_INTERVAL"),
			SubscriberBuffer: v.GetInt("RENDER_SUBSCRIBER_BUFFER"),
			KeepAlive:        v.GetDuration("RENDER_KEEPALIVE"),
		},
		Bridge: BridgeConfig{
			Mode:        v.GetString("BRIDGE_MODE"),
			URL:         v.GetString("BRIDGE_URL"),
			Timeout:     v.GetDuration("BRIDGE_TIMEOUT"),
			ArchiveFile: v.GetString("BRIDGE_ARCHIVE_FILE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Render.ChunkSize < 1 {
		return fmt.Errorf("RENDER_CHUNK_SIZE must be at least 1, got %d", c.Render.ChunkSize)
	}
	if c.Render.YieldInterval < 0 {
		return fmt.Errorf("RENDER_YIELD_INTERVAL must not be negative")
	}
	switch c.Bridge.Mode {
	case BridgeModeFile:
		if c.Bridge.ArchiveFile == "" {
			return fmt.Errorf("BRIDGE_ARCHIVE_FILE is required in file mode")
		}
	case BridgeModeHTTP:
		if c.Bridge.URL == "" {
			return fmt.Errorf("BRIDGE_URL is required in http mode")
		}
	default:
		return fmt.Errorf("BRIDGE_MODE must be one of: file, http")
	}
	return nil
}
