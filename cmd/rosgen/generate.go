package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosgen/internal/driver"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [file.msg|file.srv|dir ...]",
	Short: "Generate Go bindings",
	Long: `Generate parses, resolves and lays out the schemas and writes one Go file per
message or service. Without arguments the packages listed in rosgen.toml are
used; otherwise the given files form the package named by --package.`,
	Aliases: []string{"gen"},
	RunE:    runGenerate,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.msg|file.srv|dir ...]",
	Short: "Check schemas without writing bindings",
	Long:  `Check runs every pass of generate, including layout and emission, and reports diagnostics without touching the output directory.`,
	RunE:  runCheck,
}

func init() {
	addRequestFlags(generateCmd)
	generateCmd.Flags().Bool("no-cache", false, "ignore and do not update the generation cache")
	generateCmd.Flags().Bool("clear-cache", false, "drop every cached run before generating")
	generateCmd.Flags().Bool("dry-run", false, "run every pass but write nothing")
	addRequestFlags(checkCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}
	o, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	if req.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return err
	}
	if req.Cache, err = openCache(cmd); err != nil {
		return err
	}

	res, err := runWithProgress(cmd, "rosgen generate", req, driver.Generate)
	if err != nil {
		return err
	}
	if !o.quiet {
		printGenerateSummary(o, req, res)
	}
	return finishRun(cmd, res, o)
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}
	o, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	res, err := runWithProgress(cmd, "rosgen check", req, driver.Check)
	if err != nil {
		return err
	}
	if !o.quiet && res.OK() {
		out := o.summaryWriter()
		printSkipped(out, res)
		fmt.Fprintf(out, "%s %d file(s) would be generated\n", color.New(color.FgGreen, color.Bold).Sprint("ok:"), len(res.Files))
	}
	return finishRun(cmd, res, o)
}

// openCache returns the user cache unless --no-cache is set. A cache that
// cannot be opened only costs speed.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	clearAll, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, err
	}
	if noCache && !clearAll {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("rosgen")
	if err != nil {
		current.log.Warn("generation cache disabled", zap.Error(err))
		return nil, nil
	}
	if clearAll {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", cache.Dir(), err)
		}
		current.log.Info("generation cache cleared", zap.String("dir", cache.Dir()))
	}
	if noCache {
		return nil, nil
	}
	return cache, nil
}

func printGenerateSummary(o outputOptions, req driver.Request, res *driver.Result) {
	out := o.summaryWriter()
	printSkipped(out, res)
	outDir := req.OutDir
	if rel, err := filepath.Rel(req.BaseDir, outDir); err == nil && filepath.IsLocal(rel) {
		outDir = rel
	}
	green := color.New(color.FgGreen, color.Bold)
	switch {
	case res.UpToDate:
		fmt.Fprintf(out, "%s %s is up to date\n", green.Sprint("ok:"), outDir)
	case req.DryRun:
		fmt.Fprintf(out, "%s %d file(s) generated, nothing written\n", green.Sprint("dry run:"), len(res.Files))
	case len(res.Files) > 0:
		fmt.Fprintf(out, "%s %d written, %d unchanged in %s\n", green.Sprint("generated:"), len(res.Written), len(res.Unchanged), outDir)
	default:
		fmt.Fprintln(os.Stderr, "nothing to generate")
	}
}
