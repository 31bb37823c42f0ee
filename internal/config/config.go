package config

import (
	"fmt"
	"net/netip"
	"time"
)

// CurrentSchemaVersion defines the current schema version of the configuration.
const CurrentSchemaVersion = "1.0"

const (
	DefaultLinkName        = "lowpan0"
	DefaultAddress         = "fe80::1/64"
	DefaultShutdownTimeout = "5s"
	DefaultLogLevel        = "info"
	DefaultSyslogPort      = 514
)

// Config is the top-level structure for the daemon configuration.
type Config struct {
	// Schema version for backward compatibility. Empty means "1.0".
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty" yaml:"schema_version,omitempty"`

	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogJSON  bool   `hcl:"log_json,optional" json:"log_json,omitempty" yaml:"log_json,omitempty"`

	// MetricsListen is the address of the Prometheus endpoint. Empty disables it.
	MetricsListen string `hcl:"metrics_listen,optional" json:"metrics_listen,omitempty" yaml:"metrics_listen,omitempty"`

	// NetNS names the network namespace (as under /var/run/netns) the link
	// lives in. Empty means the daemon's own namespace.
	NetNS string `hcl:"netns,optional" json:"netns,omitempty" yaml:"netns,omitempty"`

	Syslog *SyslogConfig `hcl:"syslog,block" json:"syslog,omitempty" yaml:"syslog,omitempty"`
	Lowpan *LowpanConfig `hcl:"lowpan,block" json:"lowpan,omitempty" yaml:"lowpan,omitempty"`
}

// LowpanConfig describes the managed 6LoWPAN interface.
type LowpanConfig struct {
	Name string `hcl:"name,label" json:"name" yaml:"name"`

	// Parent is the name of the 802.15.4 link; ParentIndex may be given
	// instead.
	Parent      string `hcl:"parent,optional" json:"parent,omitempty" yaml:"parent,omitempty"`
	ParentIndex int    `hcl:"parent_index,optional" json:"parent_index,omitempty" yaml:"parent_index,omitempty"`

	Address         string `hcl:"address,optional" json:"address,omitempty" yaml:"address,omitempty"`
	ShutdownTimeout string `hcl:"shutdown_timeout,optional" json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
}

// SyslogConfig enables remote syslog in addition to console logging.
type SyslogConfig struct {
	Enabled  bool   `hcl:"enabled,optional" json:"enabled" yaml:"enabled"`
	Host     string `hcl:"host" json:"host" yaml:"host"`
	Port     int    `hcl:"port,optional" json:"port,omitempty" yaml:"port,omitempty"`
	Protocol string `hcl:"protocol,optional" json:"protocol,omitempty" yaml:"protocol,omitempty"` // udp or tcp
	Facility int    `hcl:"facility,optional" json:"facility,omitempty" yaml:"facility,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Lowpan == nil {
		c.Lowpan = &LowpanConfig{}
	}
	if c.Lowpan.Name == "" {
		c.Lowpan.Name = DefaultLinkName
	}
	if c.Lowpan.Address == "" {
		c.Lowpan.Address = DefaultAddress
	}
	if c.Lowpan.ShutdownTimeout == "" {
		c.Lowpan.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Syslog != nil {
		if c.Syslog.Port == 0 {
			c.Syslog.Port = DefaultSyslogPort
		}
		if c.Syslog.Protocol == "" {
			c.Syslog.Protocol = "udp"
		}
		if c.Syslog.Facility == 0 {
			c.Syslog.Facility = 1
		}
	}
}

// Prefix parses the configured address.
func (l *LowpanConfig) Prefix() (netip.Prefix, error) {
	p, err := netip.ParsePrefix(l.Address)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid address %q: %w", l.Address, err)
	}
	return p, nil
}

// Timeout parses the configured shutdown timeout.
func (l *LowpanConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(l.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown_timeout %q: %w", l.ShutdownTimeout, err)
	}
	return d, nil
}
