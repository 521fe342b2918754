package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// defaults + environment are enough to run
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

type SearchConfig struct {
	Strategy      string
	Heuristic     string
	Bound         float64
	KLimit        int
	MaxExpansions int
	Timeout       time.Duration
	Workers       int
}

func SetSearchDefaults() {
	viper.SetDefault("SEARCH_STRATEGY", "astar")
	viper.SetDefault("SEARCH_HEURISTIC", "sum-distance")
	viper.SetDefault("SEARCH_BOUND", 0.0)
	viper.SetDefault("SEARCH_K_LIMIT", 4)
	viper.SetDefault("SEARCH_MAX_EXPANSIONS", 0)
	viper.SetDefault("SEARCH_TIMEOUT", "0s")
	viper.SetDefault("SEARCH_WORKERS", 1)
}

func LoadSearchConfig() SearchConfig {
	SetSearchDefaults()
	return SearchConfig{
		Strategy:      viper.GetString("SEARCH_STRATEGY"),
		Heuristic:     viper.GetString("SEARCH_HEURISTIC"),
		Bound:         viper.GetFloat64("SEARCH_BOUND"),
		KLimit:        viper.GetInt("SEARCH_K_LIMIT"),
		MaxExpansions: viper.GetInt("SEARCH_MAX_EXPANSIONS"),
		Timeout:       viper.GetDuration("SEARCH_TIMEOUT"),
		Workers:       viper.GetInt("SEARCH_WORKERS"),
	}
}
