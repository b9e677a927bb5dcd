package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"rosgen/internal/diag"
)

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Fatalf("count = %d, diagnostics = %d", output.Count, len(output.Diagnostics))
	}

	first := output.Diagnostics[0]
	if first.Severity != "ERROR" || first.Code != "SEM3001" || first.Kind != "UnresolvedTypeError" {
		t.Errorf("first = %+v", first)
	}
	if first.Location == nil {
		t.Fatal("first diagnostic has no location")
	}
	want := LocationJSON{File: "Sample.msg", StartByte: 8, EndByte: 11, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 4}
	if *first.Location != want {
		t.Errorf("location = %+v, want %+v", *first.Location, want)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "declared here" {
		t.Errorf("notes = %+v", first.Notes)
	}

	io := output.Diagnostics[2]
	if io.Location != nil || io.Path != "out/demo/msg/sample_gen.go" || io.Kind != "IOError" {
		t.Errorf("path diagnostic = %+v", io)
	}
}

func TestJSONWithoutPositionsAndNotes(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 1 {
		t.Fatalf("Max ignored: count = %d", output.Count)
	}
	d := output.Diagnostics[0]
	if d.Location.StartLine != 0 || len(d.Notes) != 0 {
		t.Errorf("unexpected positions or notes: %+v", d)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Errorf("start_line present:\n%s", buf.String())
	}
}

func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(0), nil, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"diagnostics": []`) || !strings.Contains(buf.String(), `"count": 0`) {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "rosgen", ToolVersion: "0.1.0", InvocationArgs: []string{"rosgen", "check"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "rosgen" || len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if run.Tool.Driver.Rules[0].ID != "SEM3001" {
		t.Errorf("rules not sorted by code: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d", len(run.Results))
	}
	r0 := run.Results[0]
	if r0.Level != "error" || r0.RuleID != "SEM3001" {
		t.Errorf("result = %+v", r0)
	}
	reg := r0.Locations[0].PhysicalLocation.Region
	if reg == nil || reg.StartLine != 2 || reg.StartColumn != 1 {
		t.Errorf("region = %+v", reg)
	}
	if uri := r0.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "demo/msg/Sample.msg" {
		t.Errorf("uri = %q", uri)
	}
	if len(r0.RelatedLocations) != 1 {
		t.Errorf("related = %+v", r0.RelatedLocations)
	}
	if run.Results[1].Level != "warning" {
		t.Errorf("warning level = %q", run.Results[1].Level)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("run with errors marked successful")
	}
}
