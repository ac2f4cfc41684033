// Package config loads pipeline configuration from the environment or an
// optional .env file.
package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config stores all tunable parameters of the pipeline.
type Config struct {
	ImageWidth        int     `mapstructure:"IMAGE_WIDTH"`
	ImageHeight       int     `mapstructure:"IMAGE_HEIGHT"`
	ClaheClipLimit    float64 `mapstructure:"CLAHE_CLIP_LIMIT"`
	ClaheTileSize     int     `mapstructure:"CLAHE_TILE_SIZE"`
	Workers           int     `mapstructure:"WORKERS"`
	RegionDropLeading int     `mapstructure:"REGION_DROP_LEADING"`
}

// Load reads configuration from a .env file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// The .env file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("IMAGE_WIDTH", 256)
	viper.SetDefault("IMAGE_HEIGHT", 256)
	viper.SetDefault("CLAHE_CLIP_LIMIT", 40.0)
	viper.SetDefault("CLAHE_TILE_SIZE", 8)
	viper.SetDefault("WORKERS", runtime.NumCPU())
	// The reference feature set sliced a diagnostic preamble off its
	// region descriptors; ours has none. Kept overridable for parity
	// with upstream feature exports.
	viper.SetDefault("REGION_DROP_LEADING", 0)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
