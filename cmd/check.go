package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"grimm.is/wpand/internal/config"
	"grimm.is/wpand/internal/lowpan"
)

// RunCheck validates the configuration file syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	return runCheck(os.Stdout, configFile, verbose)
}

func runCheck(w io.Writer, configFile string, verbose bool) error {
	cfg, err := loadConfig(configFile, Overrides{}, true)
	if err != nil {
		return err
	}
	lp := cfg.Lowpan

	Printer.Fprintf(w, "Configuration valid!\n")
	Printer.Fprintf(w, "Schema Version: %s\n", cfg.SchemaVersion)
	Printer.Fprintf(w, "Link:           %s\n", lp.Name)
	if lp.Parent != "" {
		Printer.Fprintf(w, "Parent:         %s\n", lp.Parent)
	} else {
		Printer.Fprintf(w, "Parent:         index %v\n", lp.ParentIndex)
	}
	Printer.Fprintf(w, "Address:        %s\n", lp.Address)
	Printer.Fprintf(w, "Shutdown:       %s\n", lp.ShutdownTimeout)
	if cfg.NetNS != "" {
		Printer.Fprintf(w, "Namespace:      %s\n", cfg.NetNS)
	}

	if !verbose {
		return nil
	}

	Printer.Fprintf(w, "\n--- Effective configuration ---\n")
	w.Write(config.GenerateHCL(cfg))

	parent := uint32(lp.ParentIndex)
	note := ""
	if lp.Parent != "" {
		note = fmt.Sprintf(" (parent %s resolved at start, shown as index 0)", lp.Parent)
	}
	Printer.Fprintf(w, "\n[DRY RUN] RTNL requests%s:\n", note)

	create := lowpan.BuildCreateRequest(parent, lp.Name)
	Printer.Fprintf(w, "\n%s\n%s", create, hex.Dump(create.Data))

	del := lowpan.BuildDeleteRequest(parent, lp.Name)
	Printer.Fprintf(w, "\n%s\n%s", del, hex.Dump(del.Data))

	Printer.Fprintf(w, "\nThe address request is sent once the kernel reports the new link.\n")
	return nil
}
