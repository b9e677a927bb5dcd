package parser_test

import (
	"strings"
	"testing"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/parser"
	"rosgen/internal/source"
	"rosgen/internal/testkit"
)

func parse(t *testing.T, name, input string) (*source.FileSet, parser.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(input))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs, id, "demo", parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return fs, res, bag
}

func mustParse(t *testing.T, name, input string) *ast.File {
	t.Helper()
	fs, res, bag := parse(t, name, input)
	if !res.OK() {
		t.Fatalf("unexpected errors:\n%s", diag.FormatGoldenDiagnostics(bag.Items(), fs, false))
	}
	if err := testkit.CheckSchemaSpans(res.File); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return res.File
}

func TestParseSample(t *testing.T) {
	f := mustParse(t, "Sample.msg", "int32 x\nstring name\nint32[3] ids\n")
	if f.Name != "Sample" || f.Package != "demo" || f.Kind != ast.SchemaMessage {
		t.Fatalf("identity = %s/%s (%s)", f.Package, f.Name, f.Kind)
	}
	if len(f.Blocks) != 1 {
		t.Fatalf("blocks = %d", len(f.Blocks))
	}
	var got []string
	for _, d := range f.Blocks[0].Decls {
		got = append(got, d.Type.String()+" "+d.Name)
	}
	want := "int32 x|string name|int32[3] ids"
	if strings.Join(got, "|") != want {
		t.Errorf("decls = %q, want %q", strings.Join(got, "|"), want)
	}
	if f.Blocks[0].Decls[2].Line != 3 {
		t.Errorf("line of ids = %d", f.Blocks[0].Decls[2].Line)
	}
}

func TestParseTypeForms(t *testing.T) {
	input := strings.Join([]string{
		"uint8[] data",
		"float64[<=16] samples",
		"string<=8 tag",
		"string<=8[4] tags",
		"geometry_msgs/Point[] points",
		"Header header",
	}, "\n")
	f := mustParse(t, "Forms.msg", input)
	decls := f.Blocks[0].Decls

	cases := []struct {
		pkg, name   string
		array       ast.ArrayKind
		bound       string
		stringBound string
	}{
		{"", "uint8", ast.ArrayUnbounded, "", ""},
		{"", "float64", ast.ArrayBounded, "16", ""},
		{"", "string", ast.ArrayNone, "", "8"},
		{"", "string", ast.ArrayFixed, "4", "8"},
		{"geometry_msgs", "Point", ast.ArrayUnbounded, "", ""},
		{"", "Header", ast.ArrayNone, "", ""},
	}
	for i, tc := range cases {
		te := decls[i].Type
		if te.Package != tc.pkg || te.Name != tc.name || te.Array != tc.array {
			t.Errorf("%d: got %s/%s array=%d", i, te.Package, te.Name, te.Array)
		}
		if tc.bound != "" && (te.ArrayBound == nil || te.ArrayBound.Text != tc.bound) {
			t.Errorf("%d: array bound = %+v", i, te.ArrayBound)
		}
		if tc.stringBound != "" && (te.StringBound == nil || te.StringBound.Text != tc.stringBound) {
			t.Errorf("%d: string bound = %+v", i, te.StringBound)
		}
	}
}

func TestParseValues(t *testing.T) {
	input := "int8 MIN=-128\n" +
		"float32 ratio 0.5\n" +
		"bool flag true\n" +
		"string greeting \"hi\\n\"\n" +
		"int32[3] ids [1, -2, +3]\n" +
		"string S='x'\n"
	f := mustParse(t, "Values.msg", input)
	d := f.Blocks[0].Decls

	if d[0].Kind != ast.DeclConstant || d[0].Value.Kind != ast.ValueInt || d[0].Value.Text != "-128" {
		t.Errorf("constant = %+v %+v", d[0], d[0].Value)
	}
	if d[1].Kind != ast.DeclField || d[1].Value.Kind != ast.ValueFloat {
		t.Errorf("float default = %+v", d[1].Value)
	}
	if d[2].Value.Kind != ast.ValueIdent || d[2].Value.Text != "true" {
		t.Errorf("bool default = %+v", d[2].Value)
	}
	if d[3].Value.Kind != ast.ValueString || d[3].Value.Str != "hi\n" {
		t.Errorf("string default = %+v", d[3].Value)
	}
	arr := d[4].Value
	if arr.Kind != ast.ValueArray || len(arr.Elems) != 3 || arr.Elems[1].Text != "-2" || arr.Elems[2].Text != "3" {
		t.Errorf("array default = %+v", arr)
	}
	if arr.Text != "[1, -2, +3]" {
		t.Errorf("array text = %q", arr.Text)
	}
	if d[5].Kind != ast.DeclConstant || d[5].Value.Str != "x" {
		t.Errorf("string constant = %+v", d[5].Value)
	}
}

func TestParseComments(t *testing.T) {
	input := "# file header\n\n# X coordinate\n# in meters\nfloat64 x # east\nfloat64 y\n"
	f := mustParse(t, "Point.msg", input)
	x, y := f.Blocks[0].Decls[0], f.Blocks[0].Decls[1]
	if strings.Join(x.Doc, "|") != "X coordinate|in meters" {
		t.Errorf("doc = %q", x.Doc)
	}
	if x.Comment != "east" {
		t.Errorf("comment = %q", x.Comment)
	}
	if len(y.Doc) != 0 || y.Comment != "" {
		t.Errorf("y picked up comments: %q %q", y.Doc, y.Comment)
	}
}

func TestParseService(t *testing.T) {
	f := mustParse(t, "AddTwoInts.srv", "int64 a\nint64 b\n---\nint64 sum\n")
	if f.Kind != ast.SchemaService || len(f.Blocks) != 2 {
		t.Fatalf("kind=%s blocks=%d", f.Kind, len(f.Blocks))
	}
	if len(f.Blocks[0].Decls) != 2 || len(f.Blocks[1].Decls) != 1 {
		t.Errorf("request=%d response=%d", len(f.Blocks[0].Decls), len(f.Blocks[1].Decls))
	}

	empty := mustParse(t, "Trigger.srv", "---\nbool success\nstring message\n")
	if len(empty.Blocks) != 2 || len(empty.Blocks[0].Decls) != 0 {
		t.Errorf("empty request not kept")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name, file, input string
		want              string
	}{
		{"missing name", "A.msg", "int32\n", "error SYN2003 A.msg:1:6 expected field name after type 'int32', found end of line"},
		{"trailing tokens", "A.msg", "int32 x 1 2\n", "error SYN2007 A.msg:1:11 unexpected '2' after declaration of 'x'"},
		{"unclosed bracket", "A.msg", "int32[3 x\n", "error SYN2005 A.msg:1:9 expected ']' to close array type"},
		{"missing bound", "A.msg", "string<= \n", "error SYN2006 A.msg:1:9 expected string bound, found end of line"},
		{"constant without value", "A.msg", "int32 X=\n", "error SYN2011 A.msg:1:9 constant 'X' has no value after '='"},
		{"separator in message", "A.msg", "int32 x\n---\n", "error SYN2010 A.msg:2:1 separator '---' is only allowed in .srv files"},
		{"missing separator", "S.srv", "int32 x\n", "error SYN2008 S.srv:2:1 service S needs a '---' line between request and response"},
		{"two separators", "S.srv", "---\n---\n", "error SYN2009 S.srv:2:1 service has more than one request/response separator"},
		{"bad kind", "S.idl", "int32 x\n", `error SYN2012 S.idl:1:1 unsupported schema file "S.idl": expected .msg or .srv`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs, res, bag := parse(t, tc.file, tc.input)
			if res.OK() {
				t.Fatal("expected failure")
			}
			if got := diag.FormatGoldenDiagnostics(bag.Items(), fs, false); got != tc.want {
				t.Errorf("diagnostics:\nwant %s\ngot  %s", tc.want, got)
			}
		})
	}
}

func TestParseRecoversPerLine(t *testing.T) {
	_, res, bag := parse(t, "Many.msg", "int32 ok1\nint32 = 3\nbool ok2\nint32[2 nope\nstring ok3\n")
	if res.OK() {
		t.Fatal("expected errors")
	}
	if bag.ErrorCount() != 2 {
		t.Errorf("want one error per bad line, got %d", bag.ErrorCount())
	}
	var names []string
	for _, d := range res.File.Blocks[0].Decls {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "ok1,ok2,ok3" {
		t.Errorf("recovered decls = %v", names)
	}
}

func TestLexErrorsFailTheFile(t *testing.T) {
	_, res, bag := parse(t, "L.msg", "string s \"open\n")
	if res.OK() {
		t.Fatal("lexer error must fail the file")
	}
	if !bag.HasKind(diag.KindSyntax) {
		t.Error("lexer error must be a syntax error")
	}
}
