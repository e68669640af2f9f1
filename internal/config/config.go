// Package config loads hydro-dash settings from defaults, a YAML file,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultAPIBaseURL is the hydrology backend the dashboard talks to
	DefaultAPIBaseURL = "http://localhost:5000"
	// DefaultConfigFile is looked up in the working directory when no file is given
	DefaultConfigFile = "hydrodash.yaml"
	// EnvPrefix prefixes every environment variable read by the loader
	EnvPrefix = "HYDRODASH_"
)

// Config holds all runtime settings
type Config struct {
	APIBaseURL    string        `koanf:"api_base_url"`
	ChatURL       string        `koanf:"chat_url"`
	HTTPTimeout   time.Duration `koanf:"http_timeout"` // 0 means no timeout
	Debug         bool          `koanf:"debug"`
	Output        string        `koanf:"output"`
	TelegramToken string        `koanf:"telegram_token"`
	OpenAIAPIKey  string        `koanf:"openai_api_key"`
	OpenAIModel   string        `koanf:"openai_model"`
	Watch         WatchConfig   `koanf:"watch"`
	Render        RenderConfig  `koanf:"render"`
}

// WatchConfig configures the scheduled real-time query
type WatchConfig struct {
	Schedule    string `koanf:"schedule"`
	River       string `koanf:"river"`
	StationName string `koanf:"station_name"`
	PubTime     string `koanf:"pub_time"`
}

// RenderConfig tunes result rendering
type RenderConfig struct {
	// RealTimeMaxRows limits how many reservoir records are shown, 0 shows all
	RealTimeMaxRows int `koanf:"realtime_max_rows"`
}

// flagKeys maps flag names that do not follow the kebab-to-snake rule
var flagKeys = map[string]string{
	"realtime-max-rows": "render.realtime_max_rows",
	"schedule":          "watch.schedule",
	"river":             "watch.river",
	"station-name":      "watch.station_name",
	"pub-time":          "watch.pub_time",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api_base_url":             DefaultAPIBaseURL,
		"chat_url":                 DefaultAPIBaseURL + "/chat",
		"http_timeout":             "0s",
		"debug":                    false,
		"output":                   "table",
		"openai_model":             "gpt-4o",
		"watch.schedule":           "0 * * * *",
		"render.realtime_max_rows": 1,
	}
}

// Load reads configuration. Precedence (highest to lowest):
// flags > env vars > config file > defaults.
// Only flags that were explicitly set override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// HYDRODASH_WATCH__RIVER -> watch.river
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Variable names the bot has always used
	if cfg.TelegramToken == "" {
		cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.Render.RealTimeMaxRows < 0 {
		return nil, fmt.Errorf("render.realtime_max_rows must be >= 0, got %d", cfg.Render.RealTimeMaxRows)
	}

	return &cfg, nil
}
