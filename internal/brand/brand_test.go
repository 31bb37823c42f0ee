package brand

import (
	"path/filepath"
	"testing"
)

func TestEmbeddedNames(t *testing.T) {
	if Name == "" || ConfigFileName == "" {
		t.Error("Brand name should not be empty")
	}
	if Version == "" {
		t.Error("Global Version should be initialized (to dev default)")
	}
	if LowerName != "wpand" {
		t.Errorf("LowerName = %q, want wpand", LowerName)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(ConfigEnvPrefix+"_CONFIG_DIR", "")
	t.Setenv(ConfigEnvPrefix+"_PREFIX", "")
	if got := GetConfigDir(); got != DefaultConfigDir {
		t.Errorf("GetConfigDir() = %q, want %q", got, DefaultConfigDir)
	}

	t.Setenv(ConfigEnvPrefix+"_PREFIX", "/opt/wpand")
	if got := GetConfigDir(); got != "/opt/wpand/config" {
		t.Errorf("GetConfigDir() with prefix = %q", got)
	}

	t.Setenv(ConfigEnvPrefix+"_CONFIG_DIR", "/tmp/cfg")
	if got := GetConfigDir(); got != "/tmp/cfg" {
		t.Errorf("GetConfigDir() with explicit dir = %q", got)
	}

	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", ConfigFileName) {
		t.Errorf("DefaultConfigPath() = %q", got)
	}
}
