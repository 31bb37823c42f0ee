package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"grimm.is/wpand/internal/network"
)

// RunStatus prints the state of the managed link and its addresses.
func RunStatus(configFile string, asJSON bool) error {
	cfg, err := loadConfig(configFile, Overrides{}, false)
	if err != nil {
		return err
	}

	ns, err := network.OpenNamespace(cfg.NetNS)
	if err != nil {
		return err
	}
	if ns.IsOpen() {
		defer ns.Close()
	}

	nl, err := network.NewNetlinker(ns)
	if err != nil {
		return err
	}
	defer nl.Close()

	st, err := network.Status(nl, cfg.Lowpan.Name)
	if err != nil {
		return err
	}

	parent := ""
	if st.ParentIndex > 0 {
		if link, err := nl.LinkByIndex(st.ParentIndex); err == nil {
			parent = link.Attrs().Name
		}
	}
	return writeStatus(os.Stdout, st, parent, asJSON)
}

func writeStatus(w io.Writer, st *network.LinkStatus, parent string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	Printer.Fprintf(w, "Link:     %s (index %d)\n", st.Name, st.Index)
	if parent != "" {
		Printer.Fprintf(w, "Parent:   %s (index %d)\n", parent, st.ParentIndex)
	} else if st.ParentIndex > 0 {
		Printer.Fprintf(w, "Parent:   index %d\n", st.ParentIndex)
	}
	Printer.Fprintf(w, "Type:     %s\n", st.Type)
	Printer.Fprintf(w, "State:    %s\n", st.OperState)
	Printer.Fprintf(w, "Flags:    %s\n", st.Flags)
	Printer.Fprintf(w, "MTU:      %v\n", st.MTU)
	if len(st.Addresses) == 0 {
		Printer.Fprintf(w, "Address:  none\n")
	} else {
		Printer.Fprintf(w, "Address:  %s\n", strings.Join(st.Addresses, ", "))
	}
	return nil
}
