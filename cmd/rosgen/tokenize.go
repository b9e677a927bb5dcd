package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rosgen/internal/diagfmt"
	"rosgen/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.msg...",
	Short: "Tokenize schema files",
	Long:  `Tokenize breaks .msg and .srv files down into the tokens the parser sees`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	fileSet, results, err := driver.Tokenize(cmd.Context(), args, maxDiagnostics, jobs)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	failed := false
	for _, res := range results {
		// Диагностика в stderr, токены в stdout
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, res.Bag, fileSet, diagfmt.PrettyOpts{
				Color:   !color.NoColor && isTerminal(os.Stderr),
				Context: 1,
			})
			failed = failed || res.Bag.HasErrors()
		}
		if res.File == nil {
			continue
		}
		if len(results) > 1 && format == "pretty" {
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
		}
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, fileSet)
		case "json":
			err = diagfmt.FormatTokensJSON(os.Stdout, res.Tokens)
		}
		if err != nil {
			return err
		}
	}
	if failed {
		cmd.SilenceErrors = true
		return errReported
	}
	return nil
}
