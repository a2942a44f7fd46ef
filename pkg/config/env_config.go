package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig 启动参数的环境变量默认值，命令行参数优先
type EnvConfig struct {
	Verbose        bool   `env:"VANTAGE_VERBOSE"`
	ExperiencePath string `env:"VANTAGE_CONFIG" envDefault:"data/experience.yaml"`
	StartSection   int    `env:"VANTAGE_SECTION"`
	Fullscreen     bool   `env:"VANTAGE_FULLSCREEN"`
}

// LoadEnvConfig 从环境变量读取启动默认值
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
