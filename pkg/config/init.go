package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// InitConfig writes a default configuration file at the default location.
//
// Returns the path of the written file. Refuses to overwrite an existing
// file unless force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file at the given path.
func InitConfigToPath(path string, force bool) error {
	return InitConfigToPathWithAdmin(path, force, "")
}

// InitConfigToPathWithAdmin writes a default configuration file with the
// operator password hash already set. An empty hash leaves the admin
// account password unset.
func InitConfigToPathWithAdmin(path string, force bool, adminPasswordHash string) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	cfg := GetDefaultConfig()

	// Generate a development JWT secret so the admin API works out of the
	// box. Production deployments should override it via environment.
	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate API secret: %w", err)
	}
	cfg.API.Auth.Secret = secret
	cfg.API.Admin.PasswordHash = adminPasswordHash

	return SaveConfig(cfg, path)
}

// generateSecret returns a 64-character hex string (32 bytes of entropy).
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
