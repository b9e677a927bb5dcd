package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rosgen/internal/version"
)

// newRequestCommand builds a root with the persistent flags buildRequest reads
// and a child carrying the request flags.
func newRequestCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "rosgen"}
	pf := root.PersistentFlags()
	pf.Int("jobs", 0, "")
	pf.Int("max-diagnostics", 100, "")
	child := &cobra.Command{Use: "generate"}
	addRequestFlags(child)
	root.AddCommand(child)
	for name, value := range flags {
		if err := child.Flags().Set(name, value); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}
	return child
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandArgs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"demo/msg/B.msg":     "int32 b\n",
		"demo/msg/A.msg":     "int32 a\n",
		"demo/msg/notes.txt": "x\n",
	})
	missing := filepath.Join(root, "Missing.msg")
	files, err := expandArgs([]string{filepath.Join(root, "demo"), missing})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	want := []string{
		filepath.Join(root, "demo", "msg", "A.msg"),
		filepath.Join(root, "demo", "msg", "B.msg"),
		missing,
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", files, want)
	}

	empty := filepath.Join(root, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := expandArgs([]string{empty}); err == nil {
		t.Fatal("expected an error for a directory without schemas")
	}
}

func TestParseIncludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"std/msg/Header.msg": "uint32 seq\n",
		"geo/msg/Point.msg":  "float64 x\n",
		"geo/msg/Pose.msg":   "Point p\n",
	})
	got, err := parseIncludes([]string{
		"std=" + filepath.Join(root, "std"),
		"geo = " + filepath.Join(root, "geo", "msg", "Point.msg"),
		"geo=" + filepath.Join(root, "geo", "msg", "Pose.msg"),
	})
	if err != nil {
		t.Fatalf("parseIncludes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d packages, want 2", len(got))
	}
	if got[0].Name != "std" || len(got[0].Files) != 1 || got[0].Emit {
		t.Errorf("std include = %+v", got[0])
	}
	if got[1].Name != "geo" || len(got[1].Files) != 2 || got[1].Emit {
		t.Errorf("geo include = %+v", got[1])
	}

	for _, bad := range []string{"std", "=path", "std=", " = "} {
		if _, err := parseIncludes([]string{bad}); err == nil {
			t.Errorf("parseIncludes(%q) should fail", bad)
		}
	}
}

func TestBuildRequestFromFlags(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"demo/msg/Point.msg": "float64 x\n",
		"demo/srv/Add.srv":   "int64 a\n---\nint64 sum\n",
		"std/msg/Header.msg": "uint32 seq\n",
	})
	t.Chdir(root)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	cmd := newRequestCommand(t, map[string]string{
		"package":   "demo",
		"out":       "gen",
		"go-prefix": "example.com/robot/gen",
		"target":    "aarch64-linux-gnu",
		"include":   "std=std",
		"no-style":  "true",
	})
	req, err := buildRequest(cmd, []string{"demo"})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if len(req.Packages) != 2 {
		t.Fatalf("packages = %+v", req.Packages)
	}
	if p := req.Packages[0]; p.Name != "demo" || !p.Emit || len(p.Files) != 2 {
		t.Errorf("demo package = %+v", p)
	}
	if p := req.Packages[1]; p.Name != "std" || p.Emit {
		t.Errorf("include package = %+v", p)
	}
	if req.OutDir != "gen" || req.GoPrefix != "example.com/robot/gen" {
		t.Errorf("out = %q, prefix = %q", req.OutDir, req.GoPrefix)
	}
	if req.Target.Triple != "aarch64-linux-gnu" || !req.NoStyle {
		t.Errorf("target = %q, noStyle = %v", req.Target.Triple, req.NoStyle)
	}
	if req.BaseDir != wd || req.MaxDiagnostics != 100 {
		t.Errorf("baseDir = %q, maxDiagnostics = %d", req.BaseDir, req.MaxDiagnostics)
	}
}

func TestBuildRequestFromManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"rosgen.toml": `[output]
dir = "gen"
go_prefix = "example.com/robot/gen"
target = "aarch64-linux-gnu"

[[package]]
name = "std"
files = ["std/msg/*.msg"]
emit = false

[[package]]
name = "demo"
files = ["demo/msg/*.msg"]
`,
		"std/msg/Header.msg": "uint32 seq\n",
		"demo/msg/Point.msg": "float64 x\n",
		"demo/msg/Pose.msg":  "Point p\n",
	})
	t.Chdir(root)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	req, err := buildRequest(newRequestCommand(t, map[string]string{"go-prefix": "example.com/other/gen"}), nil)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if len(req.Packages) != 2 || req.Packages[0].Emit || !req.Packages[1].Emit {
		t.Fatalf("packages = %+v", req.Packages)
	}
	if len(req.Packages[1].Files) != 2 {
		t.Errorf("demo files = %v", req.Packages[1].Files)
	}
	if req.OutDir != filepath.Join(wd, "gen") {
		t.Errorf("OutDir = %q", req.OutDir)
	}
	if req.GoPrefix != "example.com/other/gen" {
		t.Errorf("flag should override go_prefix, got %q", req.GoPrefix)
	}
	if req.Target.Triple != "aarch64-linux-gnu" || req.BaseDir != wd {
		t.Errorf("target = %q, baseDir = %q", req.Target.Triple, req.BaseDir)
	}
}

func TestBuildRequestErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"demo/msg/Point.msg": "float64 x\n"})
	t.Chdir(root)

	cases := []struct {
		name  string
		flags map[string]string
		args  []string
		want  string
	}{
		{"files without package", nil, []string{"demo"}, "--package is required"},
		{"package without files", map[string]string{"package": "demo"}, nil, "no schema files"},
		{"unknown target", map[string]string{"package": "demo", "target": "z80"}, []string{"demo"}, "unknown target"},
		{"bad include", map[string]string{"package": "demo", "include": "std"}, []string{"demo"}, "invalid --include"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildRequest(newRequestCommand(t, tc.flags), tc.args)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Error("explicit modes must win over terminal detection")
	}
}

func TestPackageNameFromDir(t *testing.T) {
	for dir, want := range map[string]string{
		"/src/robot-arm":     "robot_arm",
		"/src/Nav.Msgs":      "nav_msgs",
		"/src/geometry_msgs": "geometry_msgs",
		"/src/2d":            defaultPackageName,
		"/":                  defaultPackageName,
	} {
		if got := packageNameFromDir(dir); got != want {
			t.Errorf("packageNameFromDir(%q) = %q, want %q", dir, got, want)
		}
	}
}

func TestRunInit(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	var out bytes.Buffer
	initCmd.SetOut(&out)
	defer initCmd.SetOut(nil)

	if err := runInit(initCmd, []string{"robot-arm"}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	manifest, err := os.ReadFile(filepath.Join(root, "robot-arm", "rosgen.toml"))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	for _, want := range []string{`go_prefix = "example.com/robot_arm/gen"`, `name = "robot_arm"`} {
		if !strings.Contains(string(manifest), want) {
			t.Errorf("manifest lacks %s:\n%s", want, manifest)
		}
	}
	for _, sub := range []string{"msg", "srv"} {
		if st, err := os.Stat(filepath.Join(root, "robot-arm", "robot_arm", sub)); err != nil || !st.IsDir() {
			t.Errorf("%s dir missing: %v", sub, err)
		}
	}
	if !strings.Contains(out.String(), "Initialized rosgen project in robot-arm") {
		t.Errorf("output = %q", out.String())
	}

	err = runInit(initCmd, []string{"robot-arm"})
	if err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init: %v", err)
	}
}

func TestRenderVersion(t *testing.T) {
	saved := color.NoColor
	defer func() { color.NoColor = saved }()
	color.NoColor = true

	info := versionInfo{Version: "1.2.3", GitCommit: "abc123"}

	var pretty bytes.Buffer
	renderVersionPretty(&pretty, info, versionOptions{format: "pretty", showHash: true, showDate: true})
	got := pretty.String()
	if !strings.HasPrefix(got, "rosgen "+version.Version+": ") {
		t.Errorf("pretty header = %q", got)
	}
	if !strings.Contains(got, "commit:  abc123") || !strings.Contains(got, "built:   unknown") {
		t.Errorf("pretty body = %q", got)
	}

	var raw bytes.Buffer
	if err := renderVersionJSON(&raw, info, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(raw.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "rosgen" || payload.Version != "1.2.3" || payload.GitCommit != "abc123" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.BuildDate != "" || payload.GitMessage != "" {
		t.Errorf("unrequested fields set: %+v", payload)
	}
}
