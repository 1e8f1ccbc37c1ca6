package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the root configuration loaded at startup.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	TransferCompleted string `mapstructure:"transfer_completed"`
}

type BusinessConfig struct {
	// InitialBalance is the starting balance, in minor units, of every
	// account opened by the registry.
	InitialBalance int64 `mapstructure:"initial_balance"`
	MaxRetryCount  int   `mapstructure:"max_retry_count"`
	// AccountCacheTTLSeconds bounds staleness of cached account reads.
	AccountCacheTTLSeconds int `mapstructure:"account_cache_ttl_seconds"`
}

// DefaultInitialBalance applies when business.initial_balance is omitted.
const DefaultInitialBalance int64 = 5000

var GlobalConfig *Config

// LoadConfig reads and parses the yaml config file.
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	if config.Business.InitialBalance <= 0 {
		config.Business.InitialBalance = DefaultInitialBalance
	}
	if config.Business.AccountCacheTTLSeconds <= 0 {
		config.Business.AccountCacheTTLSeconds = 60
	}
	if config.Business.MaxRetryCount <= 0 {
		config.Business.MaxRetryCount = 3
	}

	GlobalConfig = config
	return config
}
