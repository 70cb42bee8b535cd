package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from TASKLAB_* variables; flags override it.
type Config struct {
	ServerAddr string        `envconfig:"TASKLAB_ADDR" default:"localhost:50051"`
	Token      string        `envconfig:"TASKLAB_TOKEN"`
	Timeout    time.Duration `envconfig:"TASKLAB_TIMEOUT" default:"10s"`
	// TASKLAB_COLOURS toggles coloured output
	Colours bool `envconfig:"TASKLAB_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
