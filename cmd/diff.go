package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/wpand/internal/config"
)

// RunDiff shows what defaults and overrides change relative to the
// configuration file as written.
func RunDiff(configFile string, ov Overrides) error {
	return runDiff(os.Stdout, configFile, ov)
}

func runDiff(w io.Writer, configFile string, ov Overrides) error {
	written := &config.Config{}
	if path := resolveConfigPath(configFile); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		written = loaded
	}

	effective, err := loadConfig(configFile, ov, true)
	if err != nil {
		return err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(config.GenerateHCL(written))),
		B:        difflib.SplitLines(string(config.GenerateHCL(effective))),
		FromFile: "Written",
		ToFile:   "Effective",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("failed to diff configuration: %w", err)
	}

	if text == "" {
		Printer.Fprintln(w, "No changes detected.")
		return nil
	}
	io.WriteString(w, text)
	return nil
}
