package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadHCL_FullConfig(t *testing.T) {
	hcl := `
schema_version = "1.0"
log_level      = "debug"
log_json       = true
metrics_listen = "127.0.0.1:9117"
netns          = "mesh"

syslog {
  enabled = true
  host    = "10.0.0.5"
  port    = 5514
}

lowpan "lowpan1" {
  parent           = "wpan0"
  address          = "fe80::2/64"
  shutdown_timeout = "3s"
}
`
	cfg, err := LoadHCL([]byte(hcl), "test.hcl")
	if err != nil {
		t.Fatalf("LoadHCL() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.LogJSON {
		t.Error("LogJSON = false, want true")
	}
	if cfg.MetricsListen != "127.0.0.1:9117" {
		t.Errorf("MetricsListen = %q", cfg.MetricsListen)
	}
	if cfg.NetNS != "mesh" {
		t.Errorf("NetNS = %q, want mesh", cfg.NetNS)
	}
	if cfg.Syslog == nil || cfg.Syslog.Host != "10.0.0.5" || cfg.Syslog.Port != 5514 {
		t.Errorf("Syslog = %+v", cfg.Syslog)
	}

	if cfg.Lowpan == nil {
		t.Fatal("Lowpan block not decoded")
	}
	if cfg.Lowpan.Name != "lowpan1" {
		t.Errorf("Lowpan.Name = %q, want lowpan1", cfg.Lowpan.Name)
	}
	if cfg.Lowpan.Parent != "wpan0" {
		t.Errorf("Lowpan.Parent = %q, want wpan0", cfg.Lowpan.Parent)
	}
	if cfg.Lowpan.Address != "fe80::2/64" {
		t.Errorf("Lowpan.Address = %q", cfg.Lowpan.Address)
	}

	cfg.ApplyDefaults()
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestLoadHCL_Minimal(t *testing.T) {
	cfg, err := LoadHCL([]byte(`lowpan "lowpan0" { parent_index = 3 }`), "min.hcl")
	if err != nil {
		t.Fatalf("LoadHCL() error = %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", cfg.SchemaVersion, CurrentSchemaVersion)
	}
	if cfg.Lowpan.ParentIndex != 3 {
		t.Errorf("ParentIndex = %d, want 3", cfg.Lowpan.ParentIndex)
	}
	if cfg.Lowpan.Address != DefaultAddress {
		t.Errorf("Address = %q, want %q", cfg.Lowpan.Address, DefaultAddress)
	}
	d, err := cfg.Lowpan.Timeout()
	if err != nil || d.String() != "5s" {
		t.Errorf("Timeout() = %v, %v; want 5s", d, err)
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestLoadHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		hcl  string
		want string
	}{
		{"syntax", `lowpan "x" {`, "parse error"},
		{"unknown attribute", `colour = "blue"`, "decode error"},
		{"missing label", `lowpan { parent = "wpan0" }`, "decode error"},
		{"unsupported version", `schema_version = "2.0"`, "unsupported"},
		{"bad version", `schema_version = "one"`, "invalid schema version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadHCL([]byte(tt.hcl), "bad.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	data := `{"log_level": "warn", "lowpan": {"name": "lowpan0", "parent": "wpan1"}}`
	cfg, err := LoadJSON([]byte(data))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Lowpan == nil || cfg.Lowpan.Parent != "wpan1" {
		t.Errorf("Lowpan = %+v", cfg.Lowpan)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	hclPath := filepath.Join(dir, "wpand.hcl")
	if err := os.WriteFile(hclPath, []byte(`lowpan "lowpan0" { parent = "wpan0" }`), 0644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "wpand.json")
	if err := os.WriteFile(jsonPath, []byte(`{"lowpan": {"name": "lowpan0", "parent": "wpan0"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	// No extension: HCL is tried first, then JSON.
	noExt := filepath.Join(dir, "wpand")
	if err := os.WriteFile(noExt, []byte(`{"lowpan": {"name": "lowpan0", "parent": "wpan0"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{hclPath, jsonPath, noExt} {
		cfg, err := LoadFile(path)
		if err != nil {
			t.Errorf("LoadFile(%s) error = %v", filepath.Base(path), err)
			continue
		}
		if cfg.Lowpan == nil || cfg.Lowpan.Parent != "wpan0" {
			t.Errorf("LoadFile(%s) lowpan = %+v", filepath.Base(path), cfg.Lowpan)
		}
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGenerateHCL_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Lowpan.Parent = "wpan0"
	cfg.MetricsListen = ":9117"

	out := GenerateHCL(cfg)
	if !strings.Contains(string(out), `lowpan "lowpan0"`) {
		t.Errorf("generated HCL missing lowpan block:\n%s", out)
	}

	back, err := LoadHCL(out, "generated.hcl")
	if err != nil {
		t.Fatalf("LoadHCL(generated) error = %v\n%s", err, out)
	}
	if back.Lowpan.Parent != "wpan0" || back.MetricsListen != ":9117" {
		t.Errorf("round trip lost fields: %+v %+v", back, back.Lowpan)
	}
}

func TestLoadHCL_EnvReference(t *testing.T) {
	t.Setenv("WPAND_TEST_PARENT", "wpan3")

	cfg, err := LoadHCL([]byte(`lowpan "lowpan0" { parent = env.WPAND_TEST_PARENT }`), "env.hcl")
	if err != nil {
		t.Fatalf("LoadHCL() error = %v", err)
	}
	if cfg.Lowpan.Parent != "wpan3" {
		t.Errorf("Parent = %q, want wpan3", cfg.Lowpan.Parent)
	}

	_, err = LoadHCL([]byte(`lowpan "lowpan0" { parent = env.WPAND_SURELY_UNSET_9F2 }`), "env.hcl")
	if err == nil {
		t.Error("expected error for unset variable")
	}
}

func TestEvalContext(t *testing.T) {
	ctx := evalContext([]string{"A=1", "B=x=y", "=skip", "broken"})
	env := ctx.Variables["env"].AsValueMap()

	if len(env) != 2 {
		t.Fatalf("env has %d entries, want 2: %v", len(env), env)
	}
	if got := env["B"].AsString(); got != "x=y" {
		t.Errorf("B = %q, want x=y", got)
	}
}

func TestLoadYAML(t *testing.T) {
	data := `
log_level: debug
lowpan:
  name: lowpan0
  parent_index: 3
  shutdown_timeout: 2s
`
	cfg, err := LoadYAML([]byte(data))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Lowpan == nil || cfg.Lowpan.ParentIndex != 3 {
		t.Errorf("cfg = %+v lowpan = %+v", cfg, cfg.Lowpan)
	}

	if _, err := LoadYAML([]byte("lowpan:\n  colour: blue\n")); err == nil {
		t.Error("expected error for unknown field")
	}

	path := filepath.Join(t.TempDir(), "wpand.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Errorf("LoadFile(yaml) error = %v", err)
	}
}
