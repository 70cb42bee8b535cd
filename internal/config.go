package internal

import (
	"fmt"
	"time"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Host      string `env:"HOST,default=0.0.0.0"`
	Port      int    `env:"PORT,default=50051"`
	DebugPort int    `env:"DEBUG_PORT,default=0"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	StreamReplayDelay    time.Duration `env:"STREAM_REPLAY_DELAY,default=0s"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=30s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE,default=20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE,default=100"`

	CharReplacement  string `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxMessageLength int    `env:"MAX_MESSAGE_LENGTH,default=500"`
}

// Address is the gRPC listen address.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) Validate() error {
	switch {
	case c.Port <= 0:
		return fmt.Errorf("PORT must be positive, got %d", c.Port)
	case c.ConnectionBufferSize <= 0:
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	case c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize:
		return fmt.Errorf("invalid page sizes: default=%d max=%d", c.DefaultPageSize, c.MaxPageSize)
	case c.ReportInterval <= 0:
		return fmt.Errorf("REPORT_INTERVAL must be positive, got %s", c.ReportInterval)
	case c.MaxMessageLength <= 0:
		return fmt.Errorf("MAX_MESSAGE_LENGTH must be positive, got %d", c.MaxMessageLength)
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must hold at least 16 bytes")
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
