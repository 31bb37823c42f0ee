// Package brand holds the daemon's names and default paths.
//
// They are read from the embedded brand.json so packaging scripts can use
// the same file.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var brandJSON []byte

var (
	Name             string
	LowerName        string
	Description      string
	ConfigEnvPrefix  string
	DefaultConfigDir string
	BinaryName       string
	ConfigFileName   string

	// Set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
)

func init() {
	var b struct {
		Name             string `json:"name"`
		LowerName        string `json:"lowerName"`
		Description      string `json:"description"`
		ConfigEnvPrefix  string `json:"configEnvPrefix"`
		DefaultConfigDir string `json:"defaultConfigDir"`
		BinaryName       string `json:"binaryName"`
		ConfigFileName   string `json:"configFileName"`
	}
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("brand.json: " + err.Error())
	}
	Name, LowerName, Description = b.Name, b.LowerName, b.Description
	ConfigEnvPrefix, DefaultConfigDir = b.ConfigEnvPrefix, b.DefaultConfigDir
	BinaryName, ConfigFileName = b.BinaryName, b.ConfigFileName
}

// GetConfigDir returns the config directory:
// $WPAND_CONFIG_DIR, else $WPAND_PREFIX/config, else DefaultConfigDir.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "config")
	}
	return DefaultConfigDir
}

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}
