package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rosgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rosgen",
	Short: "Generate Go bindings for ROS2 .msg and .srv schemas",
	Long: `rosgen reads ROS2 interface definitions and writes Go packages with a safe
value type and a C-ABI compatible mirror for every message and service.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupSession,
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeSession() },
}

// main registers the subcommands and persistent flags and executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.BoolP("verbose", "v", false, "log pipeline details to stderr")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file (0 = unlimited)")
	pf.Int("jobs", 0, "max parallel workers (0 = GOMAXPROCS)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")

	pf.String("trace", "", "write trace events to file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	err := rootCmd.Execute()
	if cerr := closeSession(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
