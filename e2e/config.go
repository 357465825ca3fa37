package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_DEBUG_STATE dumps the full roster after every step
	DebugState bool `envconfig:"E2E_DEBUG_STATE" default:"false"`
	// Tick pacing of the assembled core under test
	BufferSize   int           `envconfig:"E2E_BUFFER_SIZE" default:"100"`
	TickInterval time.Duration `envconfig:"E2E_TICK_INTERVAL" default:"50ms"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
