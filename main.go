package main

import (
	"flag"
	"os"

	"grimm.is/wpand/cmd"
	"grimm.is/wpand/internal/brand"
	"grimm.is/wpand/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runFlags := flag.NewFlagSet("run", flag.ExitOnError)
		configFile := runFlags.String("config", "", "Configuration file (default "+brand.DefaultConfigPath()+")")
		runFlags.StringVar(configFile, "c", "", "Configuration file (short)")

		parent := runFlags.String("parent", "", "Parent 802.15.4 link name (overrides config)")
		index := runFlags.Int("index", 0, "Parent 802.15.4 link index (overrides config)")

		dryRun := runFlags.Bool("dry-run", false, "Dry run - log requests without sending them")
		runFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		runFlags.Parse(os.Args[2:])

		opts := cmd.RunOptions{
			ConfigFile: *configFile,
			Overrides:  cmd.Overrides{Parent: *parent, Index: *index},
			DryRun:     *dryRun,
		}
		if err := cmd.RunDaemon(opts); err != nil {
			printer.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}

	case "status":
		statusFlags := flag.NewFlagSet("status", flag.ExitOnError)
		configFile := statusFlags.String("config", "", "Configuration file")
		statusFlags.StringVar(configFile, "c", "", "Configuration file (short)")
		asJSON := statusFlags.Bool("json", false, "Print JSON")
		statusFlags.Parse(os.Args[2:])

		if err := cmd.RunStatus(*configFile, *asJSON); err != nil {
			printer.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := ""
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "diff":
		diffFlags := flag.NewFlagSet("diff", flag.ExitOnError)
		parent := diffFlags.String("parent", "", "Parent 802.15.4 link name (overrides config)")
		index := diffFlags.Int("index", 0, "Parent 802.15.4 link index (overrides config)")
		diffFlags.Parse(os.Args[2:])

		configFile := ""
		if len(diffFlags.Args()) > 0 {
			configFile = diffFlags.Arg(0)
		}

		if err := cmd.RunDiff(configFile, cmd.Overrides{Parent: *parent, Index: *index}); err != nil {
			printer.Fprintf(os.Stderr, "Diff failed: %v\n", err)
			os.Exit(1)
		}

	case "version", "-v", "--version":
		printer.Printf("%s %s (%s)\n", brand.Name, brand.Version, brand.GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  run       Create the 6LoWPAN link and keep it configured until stopped
            Options: --config (-c) <file>, --parent <name>, --index <n>, --dry-run (-n)
  status    Show the managed link and its addresses
            Options: --config (-c) <file>, --json
  check     Validate configuration file
            Options: --verbose (-v) [file]
  diff      Show what defaults and overrides change in the configuration
            Options: --parent <name>, --index <n> [file]
  version   Show version

Configuration: %s
`, brand.Name, brand.Description, brand.BinaryName, brand.DefaultConfigPath())
}
