package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosgen/internal/driver"
	"rosgen/internal/layout"
	"rosgen/internal/project"
)

const noManifestMessage = "no " + project.ManifestName + " found\n" +
	"pass the schemas explicitly, e.g.:\n" +
	"  rosgen generate --package demo --out gen --go-prefix example.com/robot/gen demo/msg/*.msg\n" +
	"or create a manifest with: rosgen init"

// addRequestFlags registers the flags shared by generate and check.
func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("package", "", "ROS package name of the schema files given as arguments")
	f.String("out", "", "output directory (overrides [output].dir)")
	f.String("go-prefix", "", "import path of the output directory (overrides [output].go_prefix)")
	f.String("runtime-import", "", "import path of the rosidl runtime package")
	f.String("target", "", "layout target triple ("+strings.Join(layout.KnownTriples(), "|")+")")
	f.StringArray("include", nil, "dependency package resolved but not emitted, as pkg=path (file or directory, repeatable)")
	f.Bool("no-style", false, "disable naming style warnings")
	f.String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("fullpath", false, "emit absolute file paths in output")
}

type requestFlags struct {
	pkg           string
	out           string
	goPrefix      string
	runtimeImport string
	target        string
	includes      []string
	noStyle       bool
}

func readRequestFlags(cmd *cobra.Command) (requestFlags, error) {
	f := cmd.Flags()
	var rf requestFlags
	var err error
	if rf.pkg, err = f.GetString("package"); err != nil {
		return rf, err
	}
	if rf.out, err = f.GetString("out"); err != nil {
		return rf, err
	}
	if rf.goPrefix, err = f.GetString("go-prefix"); err != nil {
		return rf, err
	}
	if rf.runtimeImport, err = f.GetString("runtime-import"); err != nil {
		return rf, err
	}
	if rf.target, err = f.GetString("target"); err != nil {
		return rf, err
	}
	if rf.includes, err = f.GetStringArray("include"); err != nil {
		return rf, err
	}
	if rf.noStyle, err = f.GetBool("no-style"); err != nil {
		return rf, err
	}
	return rf, nil
}

// buildRequest assembles a driver request from the command line, or from
// rosgen.toml when neither files nor --package are given. Explicit flags
// override manifest values.
func buildRequest(cmd *cobra.Command, args []string) (driver.Request, error) {
	rf, err := readRequestFlags(cmd)
	if err != nil {
		return driver.Request{}, err
	}
	root := cmd.Root().PersistentFlags()
	jobs, err := root.GetInt("jobs")
	if err != nil {
		return driver.Request{}, err
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Request{}, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return driver.Request{}, err
	}

	req := driver.Request{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		NoStyle:        rf.noStyle,
		Logger:         current.log,
		BaseDir:        wd,
	}
	if len(args) > 0 || rf.pkg != "" {
		if err := requestFromFlags(&req, rf, args); err != nil {
			return driver.Request{}, err
		}
	} else if err := requestFromManifest(&req, wd); err != nil {
		return driver.Request{}, err
	}

	if rf.out != "" {
		req.OutDir = rf.out
	}
	if rf.goPrefix != "" {
		req.GoPrefix = rf.goPrefix
	}
	if rf.runtimeImport != "" {
		req.RuntimeImport = rf.runtimeImport
	}
	triple := req.Target.Triple
	if rf.target != "" {
		triple = rf.target
	}
	target, ok := layout.TargetByTriple(triple)
	if !ok {
		return driver.Request{}, fmt.Errorf("unknown target %q (known: %s)", triple, strings.Join(layout.KnownTriples(), ", "))
	}
	req.Target = target

	includes, err := parseIncludes(rf.includes)
	if err != nil {
		return driver.Request{}, err
	}
	req.Packages = append(req.Packages, includes...)
	return req, nil
}

func requestFromFlags(req *driver.Request, rf requestFlags, args []string) error {
	if rf.pkg == "" {
		return errors.New("--package is required when schema files are given")
	}
	if len(args) == 0 {
		return fmt.Errorf("no schema files given for package %s", rf.pkg)
	}
	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	req.Packages = []driver.PackageInput{{Name: rf.pkg, Files: files, Emit: true}}
	return nil
}

func requestFromManifest(req *driver.Request, wd string) error {
	m, ok, err := project.LoadManifest(wd)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(noManifestMessage)
	}
	current.log.Debug("using manifest", zap.String("path", m.Path))
	for _, p := range m.Config.Packages {
		files, err := p.ExpandFiles(m.Root)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Path, err)
		}
		req.Packages = append(req.Packages, driver.PackageInput{Name: p.Name, Files: files, Emit: p.Emits()})
	}
	req.OutDir = m.OutputDir()
	req.GoPrefix = m.Config.Output.GoPrefix
	req.RuntimeImport = m.Config.Output.RuntimeImport
	req.Target.Triple = m.Config.Output.Target
	req.BaseDir = m.Root
	return nil
}

// expandArgs replaces directory arguments by the schema files below them.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			// несуществующий файл станет диагностикой IO
			files = append(files, arg)
			continue
		}
		found, err := driver.ListSchemaFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .msg or .srv files in %s", arg)
		}
		files = append(files, found...)
	}
	return files, nil
}

// parseIncludes turns "pkg=path" values into packages that are resolved
// but not emitted. Repeating a package appends to its files.
func parseIncludes(values []string) ([]driver.PackageInput, error) {
	var out []driver.PackageInput
	index := map[string]int{}
	for _, v := range values {
		name, path, ok := strings.Cut(v, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --include %q (expected pkg=path)", v)
		}
		files, err := expandArgs([]string{filepath.Clean(path)})
		if err != nil {
			return nil, fmt.Errorf("--include %s: %w", name, err)
		}
		if i, seen := index[name]; seen {
			out[i].Files = append(out[i].Files, files...)
			continue
		}
		index[name] = len(out)
		out = append(out, driver.PackageInput{Name: name, Files: files})
	}
	return out, nil
}
