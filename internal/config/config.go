// Package config loads and writes the amici client configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the amici client configuration.
type Config struct {
	Prompt     string `mapstructure:"prompt" yaml:"prompt"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	DumpOnQuit bool   `mapstructure:"dump_on_quit" yaml:"dump_on_quit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prompt:   "amici> ",
		LogLevel: "warn",
	}
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"prompt":       "prompt",
	"log-level":    "log_level",
	"dump-on-quit": "dump_on_quit",
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "could not get user config directory")
	}
	return filepath.Join(dir, "amici", "amici.yaml"), nil
}

// Load builds the configuration from, in increasing precedence: defaults,
// amici.yaml (configFile if set, otherwise the user config dir and the
// current directory), AMICI_* environment variables and flags that were set
// explicitly.
func Load(fs afero.Fs, flags *pflag.FlagSet, configFile string) (Config, error) {
	var c Config
	v := viper.New()
	v.SetFs(fs)

	d := Default()
	v.SetDefault("prompt", d.Prompt)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("dump_on_quit", d.DumpOnQuit)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("amici")
		v.SetConfigType("yaml")
		if p, err := DefaultPath(); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine unless it was asked for explicitly.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return c, errors.Wrap(err, "read config")
		}
	}

	v.SetEnvPrefix("amici")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, errors.Wrap(err, "decode config")
	}
	return c, nil
}

// Write stores c as YAML at path, creating parent directories as needed.
func Write(fs afero.Fs, path string, c Config) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return errors.Wrap(err, "Write.Marshal")
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "Write.MkdirAll")
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return errors.Wrap(err, "Write.WriteFile")
	}
	return nil
}
