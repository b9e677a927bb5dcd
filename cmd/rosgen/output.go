package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rosgen/internal/diag"
	"rosgen/internal/diagfmt"
	"rosgen/internal/driver"
	"rosgen/internal/observ"
	"rosgen/internal/version"
)

type outputOptions struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	quiet     bool
	timings   bool
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var o outputOptions
	var err error
	if o.format, err = cmd.Flags().GetString("format"); err != nil {
		return o, err
	}
	switch o.format {
	case "pretty", "short", "json", "sarif":
	default:
		return o, fmt.Errorf("unknown format: %s (expected pretty|short|json|sarif)", o.format)
	}
	if o.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return o, err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return o, err
	}
	if fullPath {
		o.pathMode = diagfmt.PathModeAbsolute
	}
	if o.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return o, err
	}
	if o.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return o, err
	}
	return o, nil
}

// machineReadable formats own stdout; summaries go to stderr then.
func (o outputOptions) machineReadable() bool { return o.format == "json" || o.format == "sarif" }

// printDiagnostics renders the bag in the chosen format. Pretty and short go
// to stderr, json and sarif to stdout.
func printDiagnostics(res *driver.Result, o outputOptions, args []string) error {
	bag := res.Bag
	switch o.format {
	case "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(os.Stderr, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor && isTerminal(os.Stderr),
			Context:   1,
			PathMode:  o.pathMode,
			ShowNotes: o.withNotes,
		})
		fmt.Fprintln(os.Stderr)
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, o.withNotes); out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
	case "json":
		return diagfmt.JSON(os.Stdout, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			IncludeNotes:     o.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(os.Stdout, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "rosgen",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	}
	return nil
}

// summaryWriter is where one-line run summaries go.
func (o outputOptions) summaryWriter() io.Writer {
	if o.machineReadable() {
		return os.Stderr
	}
	return os.Stdout
}

func printTimings(out io.Writer, report observ.Report) {
	if len(report.Phases) == 0 {
		return
	}
	fmt.Fprint(out, report.Summary())
}

func printSkipped(out io.Writer, res *driver.Result) {
	if len(res.Skipped) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	fmt.Fprintf(out, "%s %d schema(s) not generated:", warn.Sprint("skipped"), len(res.Skipped))
	for _, q := range res.Skipped {
		fmt.Fprintf(out, " %s", q)
	}
	fmt.Fprintln(out)
}

// finishRun prints the bag and decides the command outcome: any error
// diagnostic fails the command without a second message from cobra.
func finishRun(cmd *cobra.Command, res *driver.Result, o outputOptions) error {
	if err := printDiagnostics(res, o, os.Args); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if o.timings {
		printTimings(os.Stderr, res.Timings)
	}
	if res.OK() {
		return nil
	}
	if !o.quiet && !o.machineReadable() {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("failed: ")+diagfmt.Summary(res.Bag))
	}
	cmd.SilenceErrors = true
	return errReported
}
