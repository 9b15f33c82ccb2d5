package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Reqs struct {
		CreateRequestType       string `yaml:"create_req_type"`
		UpdateStatusRequestType string `yaml:"update_status_req_type"`
		DeleteRequestType       string `yaml:"delete_req_type"`
		SubmitRequestType       string `yaml:"submit_req_type"`
	} `yaml:"reqs"`
	Urls struct {
		Redis    string `yaml:"redis" env:"REDIS_URL"`
		Rabbitmq string `yaml:"rabbitmq" env:"RABBITMQ_URL"`
	} `yaml:"urls"`
	Database struct {
		Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // sqlite or mysql
		DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
	} `yaml:"database"`
	Exchange struct {
		Request string `yaml:"request"`
		Output  string `yaml:"output"`
	} `yaml:"exchange"`
	Queue struct {
		Request string `yaml:"request"`
		Output  string `yaml:"output"`
	} `yaml:"queue"`
	Health struct {
		Port string `yaml:"port" env:"HEALTH_PORT"`
	} `yaml:"health"`
}

// Init loads configuration from the yaml file at path, then applies
// environment variable overrides on top.
func Init(path string) (*Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error open file: %v", err)
	}

	defer file.Close()

	if err = yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}

	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env override error: %v", err)
	}

	return &cfg, nil
}
