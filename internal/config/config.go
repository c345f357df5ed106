package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. WORDMATCH_PORT
const EnvPrefix = "WORDMATCH"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string // "development" or "production"
	StaticDir      string
	MaxMessageSize int64
	CommandRate    float64 // commands per second per connection
	CommandBurst   int
	QueueSize      int
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RoomCodeLength int
	PrefixesFile   string
	SuffixesFile   string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Env:            "development",
			MaxMessageSize: 4096,
			CommandRate:    10,
			CommandBurst:   20,
			QueueSize:      256,
		},
		Game: GameConfig{
			RoomCodeLength: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// RegisterFlags defines one flag per setting, defaulting to the current values
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&c.Server.Host, "bind", "b", c.Server.Host, "address to bind to (env: WORDMATCH_BIND)")
	fs.IntVarP(&c.Server.Port, "port", "p", c.Server.Port, "port to listen on (env: WORDMATCH_PORT)")
	fs.StringVar(&c.Server.Env, "env", c.Server.Env, "development or production (env: WORDMATCH_ENV)")
	fs.StringVar(&c.Server.StaticDir, "static-dir", c.Server.StaticDir, "directory of frontend assets to serve (env: WORDMATCH_STATIC_DIR)")
	fs.Int64Var(&c.Server.MaxMessageSize, "max-message-size", c.Server.MaxMessageSize, "largest inbound websocket message in bytes (env: WORDMATCH_MAX_MESSAGE_SIZE)")
	fs.Float64Var(&c.Server.CommandRate, "command-rate", c.Server.CommandRate, "commands per second allowed per connection (env: WORDMATCH_COMMAND_RATE)")
	fs.IntVar(&c.Server.CommandBurst, "command-burst", c.Server.CommandBurst, "burst of commands allowed per connection (env: WORDMATCH_COMMAND_BURST)")
	fs.IntVar(&c.Server.QueueSize, "queue-size", c.Server.QueueSize, "capacity of the engine command queue (env: WORDMATCH_QUEUE_SIZE)")
	fs.IntVar(&c.Game.RoomCodeLength, "room-code-length", c.Game.RoomCodeLength, "length of generated room codes (env: WORDMATCH_ROOM_CODE_LENGTH)")
	fs.StringVar(&c.Game.PrefixesFile, "prefixes-file", c.Game.PrefixesFile, "newline-delimited prefix words, built-in list if empty (env: WORDMATCH_PREFIXES_FILE)")
	fs.StringVar(&c.Game.SuffixesFile, "suffixes-file", c.Game.SuffixesFile, "newline-delimited suffix words, built-in list if empty (env: WORDMATCH_SUFFIXES_FILE)")
	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "debug, info, warn or error (env: WORDMATCH_LOG_LEVEL)")
	fs.StringVar(&c.Logging.Format, "log-format", c.Logging.Format, "text or json (env: WORDMATCH_LOG_FORMAT)")
}

// ApplyEnv copies environment values onto flags the user did not set
func ApplyEnv(fs *pflag.FlagSet, v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			if err := fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.RoomCodeLength < 4 {
		return fmt.Errorf("room code length must be at least 4: %d", c.Game.RoomCodeLength)
	}
	if c.Server.CommandRate <= 0 {
		return fmt.Errorf("command rate must be positive: %v", c.Server.CommandRate)
	}
	if c.Server.CommandBurst < 1 {
		return fmt.Errorf("command burst must be at least 1: %d", c.Server.CommandBurst)
	}
	if c.Server.MaxMessageSize < 64 {
		return fmt.Errorf("max message size too small: %d", c.Server.MaxMessageSize)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
