// Package config loads session settings through viper from an optional file
// and GAMEAUDIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gameaudio/audio"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("config: invalid")

const EnvPrefix = "GAMEAUDIO"

type CuesConfig struct {
	// Bank is the bank file name, looked up in Dir then in the embedded banks.
	Bank  string
	Dir   string
	Watch bool
}

type Config struct {
	Audio      audio.Config
	SampleRate int
	Cues       CuesConfig
	// Script is an optional tengo script path.
	Script   string
	LogLevel string
	TPS      int
}

func DefaultConfig() Config {
	return Config{
		Audio:      audio.DefaultConfig(),
		SampleRate: 44100,
		Cues: CuesConfig{
			Bank: "default.yaml",
			Dir:  "cue/banks",
		},
		LogLevel: "info",
		TPS:      60,
	}
}

// Load reads path, if set, over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return DefaultConfig(), fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}
	return FromViper(v)
}

// FromViper overlays every key set in v onto DefaultConfig.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("audio.pool_size") {
		cfg.Audio.InitialPoolSize = v.GetInt("audio.pool_size")
	}
	if v.IsSet("audio.buses.master") {
		cfg.Audio.BusNames.Master = v.GetString("audio.buses.master")
	}
	if v.IsSet("audio.buses.music") {
		cfg.Audio.BusNames.Music = v.GetString("audio.buses.music")
	}
	if v.IsSet("audio.buses.sfx") {
		cfg.Audio.BusNames.SFX = v.GetString("audio.buses.sfx")
	}
	if v.IsSet("audio.sample_rate") {
		cfg.SampleRate = v.GetInt("audio.sample_rate")
	}

	if v.IsSet("cues.bank") {
		cfg.Cues.Bank = v.GetString("cues.bank")
	}
	if v.IsSet("cues.dir") {
		cfg.Cues.Dir = v.GetString("cues.dir")
	}
	if v.IsSet("cues.watch") {
		cfg.Cues.Watch = v.GetBool("cues.watch")
	}

	if v.IsSet("script.path") {
		cfg.Script = v.GetString("script.path")
	}
	if v.IsSet("log.level") {
		cfg.LogLevel = v.GetString("log.level")
	}
	if v.IsSet("game.tps") {
		cfg.TPS = v.GetInt("game.tps")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SampleRate)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	}
	if strings.TrimSpace(c.Cues.Bank) == "" {
		return fmt.Errorf("%w: cue bank is empty", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	return nil
}

// Level is the parsed log level, info when unparseable.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
