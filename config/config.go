package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config 为后端节点的全部配置，YAML 为主，环境变量可覆盖。
type Config struct {
	AppName             string        `yaml:"app_name" env:"AGRO_APP_NAME"`
	DataDir             string        `yaml:"data_dir" env:"AGRO_DATA_DIR"`
	HTTPPort            int           `yaml:"http_port" env:"AGRO_HTTP_PORT"`
	RPCURL              string        `yaml:"rpc_url" env:"AGRO_RPC_URL"`
	ChainID             int64         `yaml:"chain_id" env:"AGRO_CHAIN_ID"`
	AssetManagerAddress string        `yaml:"asset_manager_address" env:"AGRO_ASSET_MANAGER_ADDRESS"`
	LogLevel            string        `yaml:"log_level" env:"AGRO_LOG_LEVEL"`
	SessionTTL          time.Duration `yaml:"session_ttl" env:"AGRO_SESSION_TTL"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse 解析 YAML 内容，叠加环境变量并补齐默认值。
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AppName == "" {
		cfg.AppName = "Agricultura DApp"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.RPCURL == "" {
		return nil, errors.New("rpc_url is required")
	}
	// 合约地址只要求非空，格式不做校验
	if cfg.AssetManagerAddress == "" {
		return nil, errors.New("asset_manager_address is required")
	}

	return &cfg, nil
}
