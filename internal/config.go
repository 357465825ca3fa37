package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Config struct {
	BufferSize      int           `env:"BUFFER_SIZE,required=true" validate:"gte=1"`
	TickInterval    time.Duration `env:"TICK_INTERVAL,required=true" validate:"gt=0"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL,required=true" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL,required=true" validate:"oneof=debug info warn error"`
	LocalUserID     string        `env:"LOCAL_USER_ID,required=true" validate:"uuid4"`
	InventoryRootID string        `env:"INVENTORY_ROOT_ID"`
	DebugPort       int           `env:"DEBUG_PORT,default=8090" validate:"gte=1024"`
}

// Validate applies the struct rules after go-env has unmarshalled the
// environment.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LocalUser parses the local avatar's identifier.
func (c Config) LocalUser() (uuid.UUID, error) {
	return uuid.Parse(c.LocalUserID)
}

// InventoryRoot parses the calling-cards root category; when unset a
// fresh root is minted, which suits a first run against an empty
// store.
func (c Config) InventoryRoot() (uuid.UUID, error) {
	if c.InventoryRootID == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(c.InventoryRootID)
}
