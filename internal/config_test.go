package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:                 "127.0.0.1",
		Port:                 50051,
		BadgerFilepath:       "/tmp/badger",
		BlugeFilepath:        "/tmp/bluge",
		JWTSecret:            "0123456789abcdef",
		ConnectionBufferSize: 16,
		ReportInterval:       time.Second,
		DefaultPageSize:      20,
		MaxPageSize:          100,
		MaxMessageLength:     500,
	}
}

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "/tmp/badger")
	t.Setenv("BLUGE_FILEPATH", "/tmp/bluge")
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal("0.0.0.0:50051", config.Address())
	req.Equal(64, config.ConnectionBufferSize)
	req.Equal(24*time.Hour, config.AuthTokenDuration)
	req.Equal("*", config.CharReplacement)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no port", func(c *Config) { c.Port = 0 }},
		{"no buffer", func(c *Config) { c.ConnectionBufferSize = 0 }},
		{"max page below default", func(c *Config) { c.MaxPageSize = 5 }},
		{"no report interval", func(c *Config) { c.ReportInterval = 0 }},
		{"no message length", func(c *Config) { c.MaxMessageLength = 0 }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)
			require.Error(t, config.Validate())
		})
	}

	require.NoError(t, validConfig().Validate())
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("##")
	req.Error(err)
}
