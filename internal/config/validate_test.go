package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Lowpan.Parent = "wpan0"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if errs := validConfig().Validate(); errs.HasErrors() {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestValidate_Lowpan(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing parent", func(c *Config) { c.Lowpan.Parent = "" }, "lowpan[lowpan0].parent"},
		{"both parents", func(c *Config) { c.Lowpan.ParentIndex = 3 }, "lowpan[lowpan0].parent"},
		{"negative index", func(c *Config) { c.Lowpan.Parent = ""; c.Lowpan.ParentIndex = -1 }, "lowpan[lowpan0].parent_index"},
		{"bad prefix", func(c *Config) { c.Lowpan.Address = "fe80::1" }, "lowpan[lowpan0].address"},
		{"ipv4 address", func(c *Config) { c.Lowpan.Address = "169.254.1.1/16" }, "lowpan[lowpan0].address"},
		{"mapped ipv4", func(c *Config) { c.Lowpan.Address = "::ffff:169.254.1.1/64" }, "lowpan[lowpan0].address"},
		{"global address", func(c *Config) { c.Lowpan.Address = "2001:db8::1/64" }, "lowpan[lowpan0].address"},
		{"bad timeout", func(c *Config) { c.Lowpan.ShutdownTimeout = "soon" }, "lowpan[lowpan0].shutdown_timeout"},
		{"zero timeout", func(c *Config) { c.Lowpan.ShutdownTimeout = "0s" }, "lowpan[lowpan0].shutdown_timeout"},
		{"long name", func(c *Config) { c.Lowpan.Name = "lowpan0123456789" }, "lowpan[lowpan0123456789].name"},
		{"slash in name", func(c *Config) { c.Lowpan.Name = "low/pan" }, "lowpan[low/pan].name"},
		{"unknown level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"bad metrics address", func(c *Config) { c.MetricsListen = "9117" }, "metrics_listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if !errs.HasErrors() {
				t.Fatal("expected validation error")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want one for %s", errs, tt.field)
			}
		})
	}
}

func TestValidate_NameLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Lowpan.Name = strings.Repeat("l", 15)
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Errorf("15-character name rejected: %v", errs)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "loud"
	cfg.Lowpan.Parent = ""
	cfg.Lowpan.Address = "10.0.0.1/8"
	cfg.Lowpan.ShutdownTimeout = "never"

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Errorf("len(errs) = %d, want 4: %v", len(errs), errs)
	}
	if !strings.Contains(errs.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", errs.Error())
	}
}

func TestValidate_MissingBlock(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "lowpan" {
		t.Errorf("errs = %v", errs)
	}
}

func TestValidate_Syslog(t *testing.T) {
	cfg := validConfig()
	cfg.Syslog = &SyslogConfig{Enabled: true, Protocol: "sctp"}
	cfg.ApplyDefaults()

	errs := cfg.Validate()
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["syslog.host"] || !fields["syslog.protocol"] {
		t.Errorf("errs = %v", errs)
	}
	if fields["syslog.port"] {
		t.Error("default port should be valid")
	}

	cfg.Syslog = &SyslogConfig{Enabled: false}
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Errorf("disabled syslog validated: %v", errs)
	}
}
