// Package config loads wbg's settings from flags, the environment and
// an optional config file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"deedles.dev/wbg/paint"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key to form its environment
// variable, so log_level is read from WBG_LOG_LEVEL.
const EnvPrefix = "WBG"

// Config holds the resolved settings.
type Config struct {
	Color    string `mapstructure:"color"`
	Image    string `mapstructure:"image"`
	Mode     string `mapstructure:"mode"`
	LogLevel string `mapstructure:"log_level"`
}

var DefaultConfig = Config{
	Color:    "#000000",
	Mode:     "fill",
	LogLevel: "info",
}

// Dir returns the directory searched for wbg.toml, normally
// $XDG_CONFIG_HOME/wbg or ~/.config/wbg.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wbg"), nil
}

// Load reads the configuration into v and decodes it. If path is empty,
// wbg.toml is looked for in Dir and its absence is not an error. An
// explicit path must exist.
//
// Values already set on v, such as bound flags, take precedence over
// the environment, which takes precedence over the file.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetDefault("color", DefaultConfig.Color)
	v.SetDefault("image", DefaultConfig.Image)
	v.SetDefault("mode", DefaultConfig.Mode)
	v.SetDefault("log_level", defaultLogLevel())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wbg")
		v.SetConfigType("toml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notfound viper.ConfigFileNotFoundError
		if (path != "") || !errors.As(err, &notfound) {
			return DefaultConfig, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return DefaultConfig, fmt.Errorf("decode config: %w", err)
	}
	return config, nil
}

// defaultLogLevel is $LOG_LEVEL if it is set, so that it keeps working
// when nothing more specific is configured.
func defaultLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultConfig.LogLevel
}

// Background parses the configured color. A malformed color yields
// paint.Black along with the parse error.
func (c Config) Background() (color.RGBA64, error) {
	return paint.ParseColor(c.Color)
}

// ScaleMode parses the configured image scaling mode.
func (c Config) ScaleMode() (paint.Mode, error) {
	return paint.ParseMode(c.Mode)
}

// Source builds the paint source described by the configuration. An
// image that cannot be decoded is an error. A bad color is not: it is
// reported through warn, if non-nil, and replaced by black.
func (c Config) Source(warn func(error)) (paint.Source, error) {
	bg, err := c.Background()
	if (err != nil) && (warn != nil) {
		warn(err)
	}

	if c.Image == "" {
		return paint.Solid{Color: bg}, nil
	}

	mode, err := c.ScaleMode()
	if err != nil {
		return nil, err
	}

	img, err := paint.Decode(c.Image)
	if err != nil {
		return nil, err
	}

	return &paint.Picture{
		Image:      img,
		Mode:       mode,
		Background: bg,
	}, nil
}
