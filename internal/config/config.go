// Package config loads fraglog settings from a config file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fraglog/fraglog-go/internal/log"
)

const (
	// Name is the config file base name (fraglog.yml) and the environment
	// prefix (FRAGLOG_).
	Name = "fraglog"

	KeyLogPath       = "log_path"
	KeyFormat        = "format"
	KeySkipMalformed = "skip_malformed"
	KeyDatabasePath  = "database.path"
	KeyLoggingLevel  = "logging.level"
	KeyLoggingFile   = "logging.file"
)

type Config struct {
	LogPath       string   `mapstructure:"log_path"`
	Format        string   `mapstructure:"format"`
	SkipMalformed bool     `mapstructure:"skip_malformed"`
	Database      Database `mapstructure:"database"`
	Logging       Logging  `mapstructure:"logging"`
}

type Database struct {
	// Path of the SQLite archive. Empty disables archiving.
	Path string `mapstructure:"path"`
}

type Logging struct {
	Level string `mapstructure:"level"`
	// File receives a copy of every record when set.
	File string `mapstructure:"file"`
}

func defaults() map[string]any {
	return map[string]any{
		KeyLogPath:       "",
		KeyFormat:        "report",
		KeySkipMalformed: false,
		KeyDatabasePath:  "",
		KeyLoggingLevel:  string(log.Info),
		KeyLoggingFile:   "",
	}
}

// Load reads the configuration.
//
// Precedence, highest first: flags changed on the command line, FRAGLOG_*
// environment variables, the config file, defaults. bindings maps config
// keys to flag names of flags; flags missing from the set are ignored.
//
// configFile selects an explicit file. When empty, fraglog.yml is searched
// in the home directory and the working directory, and a missing file is
// not an error.
func Load(configFile string, flags *pflag.FlagSet, bindings map[string]string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, errHomeDir := homedir.Dir(); errHomeDir == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(Name)
		v.SetConfigType("yml")
	}

	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for configKey, value := range defaults() {
		v.SetDefault(configKey, value)
	}

	if flags != nil {
		for configKey, flagName := range bindings {
			flag := flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if errBind := v.BindPFlag(configKey, flag); errBind != nil {
				return nil, fmt.Errorf("binding flag %s: %w", flagName, errBind)
			}
		}
	}

	if errReadConfig := v.ReadInConfig(); errReadConfig != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(errReadConfig, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", errReadConfig)
		}
	}

	var conf Config
	if errUnmarshal := v.Unmarshal(&conf); errUnmarshal != nil {
		return nil, fmt.Errorf("invalid config file format: %w", errUnmarshal)
	}

	if _, errLevel := log.ParseLevel(conf.Logging.Level); errLevel != nil {
		return nil, fmt.Errorf("%s: %w", KeyLoggingLevel, errLevel)
	}

	return &conf, nil
}

// LogLevel returns the validated logging level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.Info
	}
	return level
}
