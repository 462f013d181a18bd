package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against its struct-tag constraints.
//
// Runs after ApplyDefaults, so a failure always means an explicitly
// configured value is out of range rather than a missing default.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid configuration: %w", validationErrors)
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}

	if cfg.Protocol.MaxFrameSize > 16*1024*1024 {
		return fmt.Errorf("protocol.max_frame_size %s exceeds the wire limit of 16MiB", cfg.Protocol.MaxFrameSize)
	}

	return nil
}
