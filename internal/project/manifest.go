// Package project reads rosgen.toml, the manifest that lists the schema
// packages of a project and where their bindings go.
package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

var (
	// ErrOutputSectionMissing indicates that [output] is missing.
	ErrOutputSectionMissing = errors.New("missing [output]")
	ErrOutputDirMissing     = errors.New("missing [output].dir")
	ErrGoPrefixMissing      = errors.New("missing [output].go_prefix")
	// ErrNoPackages indicates a manifest without [[package]] entries.
	ErrNoPackages = errors.New("no [[package]] entries")
)

// Manifest is a parsed rosgen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML layout.
type Config struct {
	Output   OutputConfig    `toml:"output"`
	Packages []PackageConfig `toml:"package"`
}

type OutputConfig struct {
	Dir           string `toml:"dir"`
	GoPrefix      string `toml:"go_prefix"`
	RuntimeImport string `toml:"runtime_import,omitempty"`
	Target        string `toml:"target,omitempty"`
}

// PackageConfig is one [[package]] entry. Files are glob patterns relative to
// the manifest directory. Emit defaults to true; packages with emit = false
// are only resolved so other packages can reference their messages.
type PackageConfig struct {
	Name  string   `toml:"name"`
	Files []string `toml:"files"`
	Emit  *bool    `toml:"emit,omitempty"`
}

// Emits reports whether bindings are written for the package.
func (p PackageConfig) Emits() bool { return p.Emit == nil || *p.Emit }

// LoadManifest finds rosgen.toml above startDir and parses it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("output") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrOutputSectionMissing)
	}
	if !meta.IsDefined("output", "dir") || strings.TrimSpace(cfg.Output.Dir) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrOutputDirMissing)
	}
	if !meta.IsDefined("output", "go_prefix") || strings.TrimSpace(cfg.Output.GoPrefix) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrGoPrefixMissing)
	}
	if len(cfg.Packages) == 0 {
		return Config{}, fmt.Errorf("%s: %w", path, ErrNoPackages)
	}
	seen := make(map[string]bool, len(cfg.Packages))
	for i, p := range cfg.Packages {
		if !IsValidPackageName(p.Name) {
			return Config{}, fmt.Errorf("%s: [[package]] #%d: invalid name %q", path, i+1, p.Name)
		}
		if seen[p.Name] {
			return Config{}, fmt.Errorf("%s: package %q is listed twice", path, p.Name)
		}
		seen[p.Name] = true
		if len(p.Files) == 0 {
			return Config{}, fmt.Errorf("%s: package %q has no files", path, p.Name)
		}
	}
	return cfg, nil
}

// IsValidPackageName accepts ROS package names: a lowercase ASCII letter
// followed by lowercase letters, digits and underscores.
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r > unicode.MaxASCII:
			return false
		case i == 0 && !unicode.IsLower(r):
			return false
		case r != '_' && !unicode.IsLower(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}

// ExpandFiles resolves the package's glob patterns against root. The result
// is sorted and deduplicated; a package matching no schema file is an error.
func (p PackageConfig) ExpandFiles(root string) ([]string, error) {
	var out []string
	for _, pattern := range p.Files {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, filepath.FromSlash(pattern))
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("package %s: bad pattern %q: %w", p.Name, pattern, err)
		}
		for _, m := range matches {
			switch filepath.Ext(m) {
			case ".msg", ".srv":
				out = append(out, m)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("package %s: no .msg or .srv file matches %s", p.Name, strings.Join(p.Files, ", "))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// OutputDir is [output].dir resolved against the manifest directory.
func (m *Manifest) OutputDir() string {
	dir := filepath.FromSlash(m.Config.Output.Dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// StarterConfig is the manifest written by "rosgen init".
func StarterConfig(pkg, goPrefix string) Config {
	return Config{
		Output: OutputConfig{Dir: "gen", GoPrefix: goPrefix},
		Packages: []PackageConfig{{
			Name:  pkg,
			Files: []string{pkg + "/msg/*.msg", pkg + "/srv/*.srv"},
		}},
	}
}

// WriteStarter creates dir/rosgen.toml, refusing to overwrite an existing one.
func WriteStarter(dir, pkg, goPrefix string) (string, error) {
	if !IsValidPackageName(pkg) {
		return "", fmt.Errorf("invalid package name %q", pkg)
	}
	path := filepath.Join(dir, ManifestName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if err := WriteConfig(f, StarterConfig(pkg, goPrefix)); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
