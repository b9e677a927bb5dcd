package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rosgen/internal/project"
)

const defaultPackageName = "my_msgs"

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a rosgen.toml manifest",
	Long: `Init writes a starter rosgen.toml into dir (the current directory by default)
together with empty <package>/msg and <package>/srv directories. The package name
defaults to the directory name when it is a valid ROS package name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("package", "", "ROS package name (default: derived from the directory)")
	initCmd.Flags().String("go-prefix", "", "import path of the output directory (default: example.com/<package>/gen)")
}

func runInit(cmd *cobra.Command, args []string) error {
	target, err := initTarget(args)
	if err != nil {
		return err
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return fmt.Errorf("failed to get package flag: %w", err)
	}
	goPrefix, err := cmd.Flags().GetString("go-prefix")
	if err != nil {
		return fmt.Errorf("failed to get go-prefix flag: %w", err)
	}
	if pkg == "" {
		pkg = packageNameFromDir(target)
	}
	if goPrefix == "" {
		goPrefix = "example.com/" + pkg + "/gen"
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath, err := project.WriteStarter(target, pkg, goPrefix)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("project already initialized: %s exists", filepath.Join(target, project.ManifestName))
	}
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	created := []string{filepath.Base(manifestPath)}
	for _, sub := range []string{"msg", "srv"} {
		dir := filepath.Join(target, pkg, sub)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		created = append(created, filepath.Join(pkg, sub)+string(filepath.Separator))
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized rosgen project in %s\n", rel)
	for _, name := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}
	return nil
}

func initTarget(args []string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if len(args) == 0 || args[0] == "." {
		return wd, nil
	}
	if filepath.IsAbs(args[0]) {
		return filepath.Clean(args[0]), nil
	}
	return filepath.Join(wd, args[0]), nil
}

// packageNameFromDir lowercases the directory name and maps '-', '.' and
// spaces to '_'. Anything still invalid falls back to my_msgs.
func packageNameFromDir(dir string) string {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(dir)))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', ' ':
			return '_'
		}
		return r
	}, name)
	if !project.IsValidPackageName(name) {
		return defaultPackageName
	}
	return name
}
