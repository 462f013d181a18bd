package config

import (
	"os"
	"strings"
	"testing"
)

func setTestConfigHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func TestInitConfig_Success(t *testing.T) {
	setTestConfigHome(t)

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "bluebox_http") {
		t.Error("Expected generated config to contain port settings")
	}

	// Generated file must load cleanly and carry a usable API secret
	cfg, err := Load(configPath)
	if err != nil {
		t.Errorf("Generated config failed to load: %v", err)
	}
	if len(cfg.API.Auth.Secret) < 32 {
		t.Errorf("Expected generated API secret of at least 32 chars, got %d", len(cfg.API.Auth.Secret))
	}
}

func TestInitConfigToPath_CustomLocation(t *testing.T) {
	tmpDir := t.TempDir()
	path := tmpDir + "/custom.yaml"

	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Generated config failed to load: %v", err)
	}
}

func TestInitConfigToPathWithAdmin_SetsPasswordHash(t *testing.T) {
	tmpDir := t.TempDir()
	path := tmpDir + "/admin.yaml"

	hash := "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456"
	if err := InitConfigToPathWithAdmin(path, false, hash); err != nil {
		t.Fatalf("InitConfigToPathWithAdmin failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Generated config failed to load: %v", err)
	}
	if cfg.API.Admin.PasswordHash != hash {
		t.Errorf("Expected admin password hash to round-trip, got %q", cfg.API.Admin.PasswordHash)
	}
}

func TestInitConfig_RefusesOverwrite(t *testing.T) {
	setTestConfigHome(t)

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	if _, err := InitConfig(false); err == nil {
		t.Fatal("Expected error when config already exists")
	}

	if _, err := InitConfig(true); err != nil {
		t.Errorf("Expected force overwrite to succeed, got: %v", err)
	}
}
