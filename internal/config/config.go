package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // timezone database for minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownDriver               = errors.New("unknown repository driver")
)

// Repository drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env        string     `mapstructure:"env"`      // current application environment (local, dev, production)
	Lang       string     `mapstructure:"lang"`     // language of user-facing messages
	Timezone   string     `mapstructure:"timezone"` // timezone of log timestamps
	HTTP       HTTP       `mapstructure:"http"`
	Repository Repository `mapstructure:"repository"`
	DB         DB         `mapstructure:"database"`
	Redis      Redis      `mapstructure:"redis"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Quiz       Quiz       `mapstructure:"quiz"`
	Loader     Loader     `mapstructure:"loader"`
}

// HTTP configures the fulfillment webhook.
type HTTP struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Repository selects the quiz content store.
type Repository struct {
	Driver       string `mapstructure:"driver"`         // memory, sqlite or postgres
	SQLitePath   string `mapstructure:"sqlite_path"`    // database file for the sqlite driver
	QuizJSONPath string `mapstructure:"quiz_json_path"` // items file for the memory driver; empty uses the built-in set
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}
	return db.URL, nil
}

// Redis configures the optional quiz cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"-"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Telegram configures the chat bridge.
type Telegram struct {
	APIToken      string `mapstructure:"-"` // Telegram API token loaded from environment
	Debug         bool   `mapstructure:"debug"`
	UpdateTimeout int    `mapstructure:"update_timeout"` // long polling timeout in seconds
}

// Quiz holds the content rules of the bot.
type Quiz struct {
	QuestionCounts []int  `mapstructure:"question_counts"`
	StartUtterance string `mapstructure:"start_utterance"`
	ReadyImageURL  string `mapstructure:"ready_image_url"`
}

// Loader configures the content importers.
type Loader struct {
	WriteRate float64 `mapstructure:"write_rate"` // items per second
	Delimiter string  `mapstructure:"delimiter"`
}

// RequireTelegram checks that the bridge can authenticate.
func (c *Config) RequireTelegram() error {
	if c.Telegram.APIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := parseLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"env":         "env",
	"lang":        "lang",
	"addr":        "http.addr",
	"driver":      "repository.driver",
	"sqlite-path": "repository.sqlite_path",
	"quiz-json":   "repository.quiz_json_path",
	"writerate":   "loader.write_rate",
	"delimiter":   "loader.delimiter",
}

// Load reads configuration from .env, config files, environment variables
// and the flags that are set. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine; the environment may be set elsewhere.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("lang", "ja")
	v.SetDefault("timezone", "Asia/Tokyo")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("repository.driver", DriverMemory)
	v.SetDefault("repository.sqlite_path", "quiz.db")
	v.SetDefault("repository.quiz_json_path", "")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.update_timeout", 60)
	v.SetDefault("quiz.question_counts", []int{3, 5, 7})
	v.SetDefault("quiz.start_utterance", "Start QuizBot")
	v.SetDefault("quiz.ready_image_url", "https://media.tenor.com/3AtT96QV6AUAAAAC/let-it-begin-hamster.gif")
	v.SetDefault("loader.write_rate", 5)
	v.SetDefault("loader.delimiter", ",")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	switch cfg.Repository.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if _, err := cfg.DB.DSN(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Repository.Driver)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
