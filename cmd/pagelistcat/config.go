package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// fileConfig mirrors novaterm.Config's shape for YAML loading, the same
// mapstructure-tagged-struct-plus-viper pattern the server command uses
// to load its own config file.
type fileConfig struct {
	Cols    int `mapstructure:"cols"`
	Rows    int `mapstructure:"rows"`
	MaxSize int `mapstructure:"max_size"`
	Preheat int `mapstructure:"preheat"`
}

func loadConfig(path string) (*fileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
