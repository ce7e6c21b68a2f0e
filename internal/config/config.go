// Package config loads server settings with viper.
//
// Settings come from, in increasing priority: built-in defaults, an optional
// eg-mcp.toml in the working directory, EG_MCP_* environment variables, and
// command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppName prefixes environment variables and names the config file.
const AppName = "eg-mcp"

// Setting keys.
const (
	KeyRoot     = "root"
	KeyAssets   = "assets"
	KeyLogLevel = "log.level"
	KeyLogJSON  = "log.json"
)

// EnvKeyReplacer maps nested keys to environment variable names ("log.level" -> LOG_LEVEL).
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Field documents one setting and its default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env returns the environment variable that overrides the field.
func (f Field) Env() string {
	return EnvPrefix() + "_" + strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
}

// EnvPrefix is the prefix of every environment variable, e.g. EG_MCP.
func EnvPrefix() string {
	return strings.ToUpper(EnvKeyReplacer.Replace(AppName))
}

// Defaults lists every setting in display order.
var Defaults = []Field{
	{KeyRoot, ".", "Design system checkout that registry paths are relative to"},
	{KeyAssets, "assets", "Directory under root holding the chain/token logo mirror"},
	{KeyLogLevel, "info", "Log level: trace, debug, info, warn, error"},
	{KeyLogJSON, false, "Write logs as JSON instead of text"},
}

// Config is the resolved server configuration.
type Config struct {
	Root     string
	Assets   string
	LogLevel string
	LogJSON  bool
}

// Setup registers defaults and environment bindings on v and reads the
// config file if one exists.
func Setup(v *viper.Viper) error {
	v.SetConfigName(AppName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix())
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, f := range Defaults {
		v.SetDefault(f.Key, f.Value)
		if err := v.BindEnv(f.Key); err != nil {
			return fmt.Errorf("bind %s: %w", f.Key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load returns the configuration currently held by v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Root:     v.GetString(KeyRoot),
		Assets:   v.GetString(KeyAssets),
		LogLevel: v.GetString(KeyLogLevel),
		LogJSON:  v.GetBool(KeyLogJSON),
	}
	if strings.TrimSpace(c.Root) == "" {
		return Config{}, errors.New("root must not be empty")
	}
	return c, nil
}
