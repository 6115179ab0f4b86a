package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the jsonset configuration schema.
type Config struct {
	Service string        `yaml:"service"`
	AWS     AWSConfig     `yaml:"aws"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type AWSConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	QueueURL        string `yaml:"queue_url"`
	TopicARN        string `yaml:"topic_arn"`
	StreamName      string `yaml:"stream_name"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Service == "" {
		return Config{}, fmt.Errorf("service is required")
	}

	return cfg, nil
}
