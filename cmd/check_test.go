package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunCheck_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
lowpan "lowpan0" {
  parent_index = 3
}
`)
	var out bytes.Buffer
	if err := runCheck(&out, path, false); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	if !strings.Contains(out.String(), "Configuration valid!") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "RTNL requests") {
		t.Error("requests printed without -v")
	}
}

func TestRunCheck_Verbose(t *testing.T) {
	path := writeConfig(t, `lowpan "lowpan0" { parent_index = 3 }`)

	var out bytes.Buffer
	if err := runCheck(&out, path, true); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{`lowpan "lowpan0"`, "RTM_NEWLINK", "RTM_DELLINK", "flags=0x600"} {
		if !strings.Contains(got, want) {
			t.Errorf("verbose output missing %q:\n%s", want, got)
		}
	}
}

func TestRunCheck_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
lowpan "lowpan0" {
    # Missing closing brace
`)
	if err := runCheck(&bytes.Buffer{}, path, false); err == nil {
		t.Error("runCheck() error = nil, want parse error")
	}

	path = writeConfig(t, `lowpan "lowpan0" { address = "fe80::1/64" }`)
	if err := runCheck(&bytes.Buffer{}, path, false); err == nil {
		t.Error("runCheck() error = nil, want missing parent")
	}
}
