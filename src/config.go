package main

import (
	"fmt"
	"os"

	"tweet-processor/src/pipeline"

	"gopkg.in/yaml.v3"
)

// Config struct for YAML config file
type Config struct {
	InputDir          string   `yaml:"input"`
	OutputDir         string   `yaml:"output"`
	WindowSeconds     int      `yaml:"window_seconds"`
	Verbose           bool     `yaml:"verbose"`
	LogDir            string   `yaml:"log_dir"`
	HashtagFilterFile string   `yaml:"hashtag_filter_file"`
	Dedupe            bool     `yaml:"dedupe"`
	DedupeCapacity    uint     `yaml:"dedupe_capacity"`
	DedupeFPRate      float64  `yaml:"dedupe_fp_rate"`
	MQ                MQConfig `yaml:"mq"`
}

// MQConfig configures the optional result publisher.
type MQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Queue    string `yaml:"queue"`
}

// defaultConfig returns the settings used when no config file is given.
func defaultConfig() *Config {
	return &Config{
		InputDir:       pipeline.DefaultInputDir,
		OutputDir:      pipeline.DefaultOutputDir,
		WindowSeconds:  pipeline.DefaultWindowSeconds,
		DedupeCapacity: pipeline.DefaultDedupeCapacity,
		DedupeFPRate:   pipeline.DefaultDedupeFPRate,
		MQ: MQConfig{
			Host:     "localhost",
			Port:     5672,
			Username: "guest",
			Password: "guest",
			Queue:    "tweet_results",
		},
	}
}

// loadConfig loads the YAML config file over the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// validate rejects settings the run cannot work with.
func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("'input' cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("'output' cannot be empty")
	}
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("'window_seconds' must be positive, got %d", c.WindowSeconds)
	}
	if c.Dedupe && (c.DedupeFPRate <= 0 || c.DedupeFPRate >= 1) {
		return fmt.Errorf("'dedupe_fp_rate' must be between 0 and 1, got %g", c.DedupeFPRate)
	}
	if c.MQ.Enabled {
		if err := c.MQ.rabbitMQConfig().validate(); err != nil {
			return fmt.Errorf("invalid 'mq' section: %w", err)
		}
	}
	return nil
}

func (m MQConfig) rabbitMQConfig() RabbitMQConfig {
	return RabbitMQConfig{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		Queue:    m.Queue,
	}
}
