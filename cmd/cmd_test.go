package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/wpand/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wpand.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `lowpan "lowpan0" { parent = "wpan0" }`)

	cfg, err := loadConfig(path, Overrides{Index: 4}, true)
	require.NoError(t, err)
	assert.Empty(t, cfg.Lowpan.Parent)
	assert.Equal(t, 4, cfg.Lowpan.ParentIndex)

	cfg, err = loadConfig(path, Overrides{Parent: "wpan1"}, true)
	require.NoError(t, err)
	assert.Equal(t, "wpan1", cfg.Lowpan.Parent)
	assert.Equal(t, config.DefaultAddress, cfg.Lowpan.Address)
}

func TestLoadConfig_DefaultPathMissing(t *testing.T) {
	t.Setenv("WPAND_CONFIG_DIR", t.TempDir())

	_, err := loadConfig("", Overrides{}, true)
	require.Error(t, err, "no parent anywhere")
	assert.Contains(t, err.Error(), "parent")

	cfg, err := loadConfig("", Overrides{Parent: "wpan0"}, true)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLinkName, cfg.Lowpan.Name)

	cfg, err = loadConfig("", Overrides{}, false)
	require.NoError(t, err, "status does not need a parent")
	assert.Equal(t, config.DefaultLinkName, cfg.Lowpan.Name)
}

func TestLoadConfig_DefaultPathPresent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WPAND_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wpand.hcl"),
		[]byte(`lowpan "lowpan2" { parent_index = 9 }`), 0644))

	cfg, err := loadConfig("", Overrides{}, true)
	require.NoError(t, err)
	assert.Equal(t, "lowpan2", cfg.Lowpan.Name)
	assert.Equal(t, 9, cfg.Lowpan.ParentIndex)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `lowpan "lowpan0" {
  parent  = "wpan0"
  address = "2001:db8::1/64"
}`)
	_, err := loadConfig(path, Overrides{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link-local")

	var errs config.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestSetupLogging(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	log, cleanup, err := setupLogging(cfg, &buf)
	require.NoError(t, err)
	defer cleanup()

	log.Info("hidden")
	log.Warn("shown", "link", "lowpan0")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "link=lowpan0")

	cfg.LogLevel = "loud"
	_, _, err = setupLogging(cfg, &buf)
	assert.Error(t, err)
}
