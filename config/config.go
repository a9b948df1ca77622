// Package config loads the sidecar settings from flags, environment, an
// optional .env file and an optional config file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/rules"
)

// EnvPrefix is prepended to every environment key, e.g.
// VIMY_MAPGEN_PARAMS_WATER=0.3.
const EnvPrefix = "VIMY_MAPGEN"

const DefaultSocket = "/tmp/vimy-mapgen.sock"

type Config struct {
	Socket  string `mapstructure:"socket"`
	Catalog string `mapstructure:"catalog"` // builtin temperate catalog when empty
	// Preset replaces the terrain knobs of Params, keeping its layout.
	Preset string       `mapstructure:"preset"`
	Log    LogConfig    `mapstructure:"log"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Params model.Params `mapstructure:"params"`
	Limits rules.Limits `mapstructure:"limits"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max-size"`
	MaxBackups int    `mapstructure:"max-backups"`
	MaxAgeDays int    `mapstructure:"max-age"`
}

type CacheConfig struct {
	MaxMaps int64         `mapstructure:"max-maps"` // 0 disables caching
	TTL     time.Duration `mapstructure:"ttl"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("socket", DefaultSocket)
	v.SetDefault("catalog", "")
	v.SetDefault("preset", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max-size", 50)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age", 28)
	v.SetDefault("cache.max-maps", 64)
	v.SetDefault("cache.ttl", 30*time.Minute)
	setStructDefaults(v, "params", model.DefaultParams())
	setStructDefaults(v, "limits", rules.DefaultLimits())
}

// setStructDefaults registers every mapstructure-tagged field of s under
// prefix so that environment overrides are seen by Unmarshal.
func setStructDefaults(v *viper.Viper, prefix string, s any) {
	rv := reflect.ValueOf(s)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		v.SetDefault(prefix+"."+key, rv.Field(i).Interface())
	}
}

func flags() *pflag.FlagSet {
	p := model.DefaultParams()
	set := pflag.NewFlagSet("vimy-mapgen", pflag.ContinueOnError)
	set.String("config", "", "path to a config file (yaml, json or toml)")
	set.String("socket", DefaultSocket, "unix socket to listen on")
	set.String("catalog", "", "tileset catalog JSON (builtin temperate when empty)")
	set.String("preset", "", fmt.Sprintf("terrain preset, one of %v", model.PresetNames()))
	set.String("log.level", "info", "debug, info, warn or error")
	set.String("log.file", "", "also write logs to this file, rotated by size")
	set.Int64("cache.max-maps", 64, "maps kept in the result cache")
	set.Int32("params.seed", p.Seed, "default seed, 0 picks one at random")
	set.Int("params.size", p.Size, "default map size in cells")
	set.Int("params.rotations", p.Rotations, "default rotational symmetry")
	set.Int("params.mirror", p.Mirror, "default mirror axis (0-4)")
	set.Float64("params.water", p.Water, "default water fraction")
	set.Float64("params.mountain", p.Mountain, "default mountain fraction")
	set.Float64("params.forest", p.Forest, "default forest fraction")
	return set
}

// Load resolves the configuration for args (without the program name).
// A missing .env file is not an error; pflag.ErrHelp is returned as is.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	set := flags()
	if err := set.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	defaults(v)
	if err := v.BindPFlags(set); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Preset != "" {
		p, err := model.Preset(cfg.Preset, cfg.Params)
		if err != nil {
			return Config{}, err
		}
		cfg.Params = p
	}
	cfg.Limits.Validate()
	return cfg, nil
}
