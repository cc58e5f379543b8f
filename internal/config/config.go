package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const FileName = "decodingden.cfg.json"

// Config is the resolved application configuration.
type Config struct {
	LogLevel       string
	APIBaseURL     string
	APITimeout     time.Duration
	BoardWidth     int
	BoardHeight    int
	SharePort      int
	ShareAdvertise bool
	StorePath      string
	SampleRate     int
	WordsPerMinute int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("api.baseUrl", "http://localhost:5000/api")
	v.SetDefault("api.timeout", "8s")

	v.SetDefault("board.width", 1200)
	v.SetDefault("board.height", 800)

	v.SetDefault("share.port", 8888)
	v.SetDefault("share.advertise", true)

	v.SetDefault("store.path", "decodingden.db")

	v.SetDefault("audio.sampleRate", 44100)
	v.SetDefault("readAlong.wordsPerMinute", 140)
}

// Load reads decodingden.cfg.json from configDir. A missing file leaves
// every value at its default; a malformed one is an error.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("DECODINGDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		LogLevel:       v.GetString("logLevel"),
		APIBaseURL:     v.GetString("api.baseUrl"),
		APITimeout:     v.GetDuration("api.timeout"),
		BoardWidth:     v.GetInt("board.width"),
		BoardHeight:    v.GetInt("board.height"),
		SharePort:      v.GetInt("share.port"),
		ShareAdvertise: v.GetBool("share.advertise"),
		StorePath:      v.GetString("store.path"),
		SampleRate:     v.GetInt("audio.sampleRate"),
		WordsPerMinute: v.GetInt("readAlong.wordsPerMinute"),
	}
	if cfg.BoardWidth <= 0 || cfg.BoardHeight <= 0 {
		return Config{}, fmt.Errorf("board size must be positive, got %dx%d", cfg.BoardWidth, cfg.BoardHeight)
	}
	return cfg, nil
}
