package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Keys understood by Load. Environment variable names match them
// case-insensitively (APP_TITLE, app_title and App_Title all work).
const (
	KeyAppTitle        = "app_title"
	KeyAppDescription  = "app_description"
	KeyAppVersion      = "app_version"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyDebug           = "debug"
	KeyAllowedOrigins  = "allowed_origins"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyReadTimeout     = "read_timeout"
	KeyWriteTimeout    = "write_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
)

// EnvFiles are loaded into the process environment before reading
// configuration. Variables already set are not overwritten.
var EnvFiles = []string{".env", ".env.local"}

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	App            AppConfig
	Server         ServerConfig
	AllowedOrigins []string
	Debug          bool
	LogLevel       string
	LogFormat      string
}

type AppConfig struct {
	Title       string
	Description string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// Address returns host:port for net/http
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppTitle, "Platos API")
	v.SetDefault(KeyAppDescription, "A REST API for managing dishes")
	v.SetDefault(KeyAppVersion, "0.1.0")
	v.SetDefault(KeyHost, "0.0.0.0")
	v.SetDefault(KeyPort, 8000)
	v.SetDefault(KeyDebug, true)
	v.SetDefault(KeyAllowedOrigins, []string{"*"})
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyReadTimeout, 15)
	v.SetDefault(KeyWriteTimeout, 15)
	v.SetDefault(KeyShutdownTimeout, 30)
}

// Load reads configuration from .env files, environment variables and any
// flags already bound to v. Pass viper.New() when no flags are involved.
func Load(v *viper.Viper) (*Config, error) {
	for _, f := range EnvFiles {
		// missing files are fine
		_ = godotenv.Load(f)
	}

	SetDefaults(v)
	environ := os.Environ()
	for _, key := range []string{
		KeyAppTitle, KeyAppDescription, KeyAppVersion,
		KeyHost, KeyPort, KeyDebug, KeyAllowedOrigins,
		KeyLogLevel, KeyLogFormat,
		KeyReadTimeout, KeyWriteTimeout, KeyShutdownTimeout,
	} {
		input := append([]string{key}, envNames(environ, key)...)
		if err := v.BindEnv(input...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	origins, err := parseOrigins(v.Get(KeyAllowedOrigins))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %s: %w", KeyAllowedOrigins, err)
	}

	debug, err := parseBool(v.Get(KeyDebug))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %s: %w", KeyDebug, err)
	}

	cfg := &Config{
		App: AppConfig{
			Title:       strings.TrimSpace(v.GetString(KeyAppTitle)),
			Description: strings.TrimSpace(v.GetString(KeyAppDescription)),
			Version:     strings.TrimSpace(v.GetString(KeyAppVersion)),
		},
		Server: ServerConfig{
			Host:            strings.TrimSpace(v.GetString(KeyHost)),
			Port:            v.GetInt(KeyPort),
			ReadTimeout:     v.GetInt(KeyReadTimeout),
			WriteTimeout:    v.GetInt(KeyWriteTimeout),
			ShutdownTimeout: v.GetInt(KeyShutdownTimeout),
		},
		AllowedOrigins: origins,
		Debug:          debug,
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:      strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = LogLevelInfo
		if cfg.Debug {
			cfg.LogLevel = LogLevelDebug
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Title, validation.Required),
		validation.Field(&c.App.Version, validation.Required),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Host, validation.Required, is.Host),
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Server.ReadTimeout, validation.Required, validation.Min(1)),
		validation.Field(&c.Server.WriteTimeout, validation.Required, validation.Min(1)),
		validation.Field(&c.Server.ShutdownTimeout, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedOrigins, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.LogLevel, validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
	)
}

// envNames returns the variable names in environ that equal key ignoring
// case. The upper-case name always comes first so it wins when several are set.
func envNames(environ []string, key string) []string {
	names := []string{strings.ToUpper(key)}
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || name == names[0] || !strings.EqualFold(name, key) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// parseBool accepts everything strconv.ParseBool does plus yes/no, y/n and on/off.
func parseBool(raw interface{}) (bool, error) {
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
		raw = strings.TrimSpace(s)
	}

	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("must be a boolean: %w", err)
	}
	return b, nil
}

// parseOrigins accepts a JSON array ("[\"a\",\"b\"]"), a comma separated
// string ("a,b") or a string slice from defaults and flags.
func parseOrigins(raw interface{}) ([]string, error) {
	var origins []string

	switch val := raw.(type) {
	case []string:
		origins = val
	case []interface{}:
		for _, o := range val {
			origins = append(origins, fmt.Sprint(o))
		}
	case string:
		s := strings.TrimSpace(val)
		if strings.HasPrefix(s, "[") {
			if err := json.Unmarshal([]byte(s), &origins); err != nil {
				return nil, fmt.Errorf("must be a JSON array of strings: %w", err)
			}
		} else if s != "" {
			origins = strings.Split(s, ",")
		}
	case nil:
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}

	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	return cleaned, nil
}
