// Package cmd implements the wpand subcommands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"grimm.is/wpand/internal/brand"
	"grimm.is/wpand/internal/config"
	"grimm.is/wpand/internal/i18n"
	"grimm.is/wpand/internal/logging"
)

// Printer is the locale-aware printer for CLI output.
var Printer = i18n.NewCLIPrinter()

// Overrides are command-line settings that take precedence over the file.
type Overrides struct {
	Parent string
	Index  int
}

// loadConfig reads the configuration, applies overrides and defaults, and
// optionally validates the result. An empty path means the default config
// file, which may be absent.
func loadConfig(path string, ov Overrides, validate bool) (*config.Config, error) {
	var cfg *config.Config
	path = resolveConfigPath(path)
	if path == "" {
		cfg = &config.Config{}
	} else {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cfg.Lowpan == nil {
		cfg.Lowpan = &config.LowpanConfig{}
	}
	switch {
	case ov.Parent != "":
		cfg.Lowpan.Parent = ov.Parent
		cfg.Lowpan.ParentIndex = 0
	case ov.Index != 0:
		cfg.Lowpan.Parent = ""
		cfg.Lowpan.ParentIndex = ov.Index
	}
	cfg.ApplyDefaults()

	if validate {
		if errs := cfg.Validate(); errs.HasErrors() {
			return nil, fmt.Errorf("configuration invalid: %w", errs)
		}
	}
	return cfg, nil
}

// resolveConfigPath returns path, or the default config file if path is
// empty and that file exists. An empty result means no file.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	path = brand.DefaultConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

// setupLogging builds the daemon logger from cfg and installs it as the
// default. The returned func releases the syslog connection, if any.
func setupLogging(cfg *config.Config, stderr io.Writer) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	out := stderr
	cleanup := func() {}
	if s := cfg.Syslog; s != nil && s.Enabled {
		w, err := logging.NewSyslogWriter(logging.SyslogConfig{
			Enabled:  true,
			Host:     s.Host,
			Port:     s.Port,
			Protocol: s.Protocol,
			Facility: s.Facility,
			Tag:      brand.LowerName,
		})
		if err != nil {
			return nil, nil, err
		}
		out = logging.MultiWriter(stderr, w)
		cleanup = func() { w.Close() }
	}

	log := logging.New(logging.Config{
		Level:  level,
		Output: out,
		JSON:   cfg.LogJSON,
	})
	logging.SetDefault(log)
	return log, cleanup, nil
}
