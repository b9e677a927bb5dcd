package sema_test

import (
	"strings"
	"testing"

	"rosgen/internal/diag"
	"rosgen/internal/model"
	"rosgen/internal/parser"
	"rosgen/internal/sema"
	"rosgen/internal/source"
	"rosgen/internal/symbols"
	"rosgen/internal/types"
)

type unit struct {
	pkg, file, src string
}

type env struct {
	fs      *source.FileSet
	bag     *diag.Bag
	table   *symbols.Table
	types   *types.Interner
	results []sema.Result
	cyclic  map[types.QualifiedName]bool
}

func compile(t *testing.T, units ...unit) *env {
	t.Helper()
	e := &env{
		fs:    source.NewFileSet(),
		bag:   diag.NewBag(0),
		table: symbols.NewTable(uint(len(units))),
		types: types.NewInterner(),
	}
	rep := diag.BagReporter{Bag: e.bag}

	var declared []sema.Declared
	for _, u := range units {
		id := e.fs.AddVirtual(u.file, []byte(u.src))
		res := parser.ParseFile(e.fs, id, u.pkg, parser.Options{Reporter: rep})
		if !res.OK() {
			t.Fatalf("parse %s:\n%s", u.file, diag.FormatGoldenDiagnostics(e.bag.Items(), e.fs, false))
		}
		declared = append(declared, sema.Declare(e.table, res.File, rep))
	}
	e.table.Freeze()

	rs := &sema.Resolver{Files: e.fs, Types: e.types, Symbols: e.table}
	for _, d := range declared {
		e.results = append(e.results, rs.ResolveFile(d, rep))
	}
	e.cyclic = sema.CheckCycles(e.table, e.types, rep)
	return e
}

func (e *env) golden() string {
	return diag.FormatGoldenDiagnostics(e.bag.Items(), e.fs, false)
}

func (e *env) message(t *testing.T, pkg, name string) *model.MessageSpec {
	t.Helper()
	msg := e.table.MessageByName(types.QualifiedName{Package: pkg, Name: name})
	if msg == nil {
		t.Fatalf("%s/%s not resolved:\n%s", pkg, name, e.golden())
	}
	return msg
}

func TestResolveSample(t *testing.T) {
	e := compile(t, unit{"demo", "Sample.msg", "int32 x\nstring name\nint32[3] ids\n"})
	if e.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", e.golden())
	}
	msg := e.message(t, "demo", "Sample")
	var got []string
	for _, f := range msg.Fields {
		got = append(got, f.Name+":"+e.types.Format(f.Type))
	}
	if want := "x:int32|name:string|ids:int32[3]"; strings.Join(got, "|") != want {
		t.Errorf("fields = %s, want %s", strings.Join(got, "|"), want)
	}
}

func TestPrimitiveResolution(t *testing.T) {
	cases := map[string]types.Prim{
		"bool": types.PrimBool, "byte": types.PrimUint8, "char": types.PrimUint8,
		"int8": types.PrimInt8, "uint8": types.PrimUint8,
		"int16": types.PrimInt16, "uint16": types.PrimUint16,
		"int32": types.PrimInt32, "uint32": types.PrimUint32,
		"int64": types.PrimInt64, "uint64": types.PrimUint64,
		"float32": types.PrimFloat32, "float64": types.PrimFloat64,
	}
	var src strings.Builder
	for name := range cases {
		src.WriteString(name + " f_" + name + "\n")
	}
	e := compile(t, unit{"demo", "Prims.msg", src.String()})
	msg := e.message(t, "demo", "Prims")
	for _, f := range msg.Fields {
		want := cases[strings.TrimPrefix(f.Name, "f_")]
		tt := e.types.MustLookup(f.Type)
		if tt.Kind != types.KindPrimitive || tt.Prim != want {
			t.Errorf("%s resolved to %+v, want %s", f.Name, tt, want)
		}
	}
}

func TestForwardAndCrossPackageReference(t *testing.T) {
	e := compile(t,
		unit{"demo", "Path.msg", "Pose[] poses\ngeometry/Point origin\n"},
		unit{"demo", "Pose.msg", "geometry/Point position\n"},
		unit{"geometry", "Point.msg", "float64 x\nfloat64 y\n"},
	)
	if e.bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", e.golden())
	}
	path := e.message(t, "demo", "Path")
	if got := e.types.Format(path.Fields[0].Type); got != "demo/Pose[]" {
		t.Errorf("bare reference resolved to %s", got)
	}
}

func TestCycles(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		e := compile(t, unit{"demo", "Node.msg", "int32 v\nNode next\n"})
		want := "error SEM3004 Node.msg:2:1 message demo/Node contains itself in place: demo/Node.next -> demo/Node; use a sequence ([] or [<=N]) to refer back"
		if got := e.golden(); got != want {
			t.Errorf("got  %s\nwant %s", got, want)
		}
		if !e.cyclic[types.QualifiedName{Package: "demo", Name: "Node"}] {
			t.Errorf("Node not marked cyclic")
		}
	})
	t.Run("through sequence", func(t *testing.T) {
		e := compile(t, unit{"demo", "Tree.msg", "int32 v\nTree[] children\nTree[<=2] pair\n"})
		if e.bag.HasErrors() {
			t.Fatalf("sequence self reference must be legal:\n%s", e.golden())
		}
	})
	t.Run("mutual through fixed array", func(t *testing.T) {
		e := compile(t,
			unit{"demo", "A.msg", "B[2] bs\n"},
			unit{"demo", "B.msg", "int8 pad\nA a\n"},
		)
		if !e.bag.HasKind(diag.KindCyclicType) || e.bag.ErrorCount() != 1 {
			t.Fatalf("want one cycle error:\n%s", e.golden())
		}
		if !strings.Contains(e.golden(), "demo/A.bs -> demo/B.a -> demo/A") {
			t.Errorf("cycle path missing:\n%s", e.golden())
		}
	})
}

func TestDuplicateField(t *testing.T) {
	e := compile(t, unit{"demo", "Dup.msg", "int32 x\nint32 x\n"})
	want := "error SEM3007 Dup.msg:2:7 duplicate field 'x' on line 2: already declared on line 1"
	if got := e.golden(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if err := e.bag.Err(e.fs); err == nil || !strings.Contains(err.Error(), "DuplicateFieldError") {
		t.Errorf("Err() = %v", err)
	}
	if e.table.MessageByName(types.QualifiedName{Package: "demo", Name: "Dup"}) != nil {
		t.Errorf("failed message must not be filled")
	}
}

func TestUnresolvedAndServiceHalf(t *testing.T) {
	e := compile(t,
		unit{"demo", "Add.srv", "int64 a\n---\nint64 sum\n"},
		unit{"demo", "Use.msg", "Missing m\nother/Thing t\nAdd_Request req\nwstring w\n"},
	)
	want := strings.Join([]string{
		"error SEM3001 Use.msg:1:1 unknown type 'Missing': not a primitive and no message demo/Missing in this invocation",
		"error SEM3001 Use.msg:2:7 unknown type 'other/Thing'",
		"error SEM3002 Use.msg:3:1 service request demo/Add_Request cannot be used as a field type",
		"error SEM3001 Use.msg:4:1 type 'wstring' is not supported",
	}, "\n")
	if got := e.golden(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if !e.results[0].OK() {
		t.Errorf("service itself is fine")
	}
}

func TestInvalidBounds(t *testing.T) {
	src := "int32[0] a\nint32[<=-1] b\nstring<=abc c\nint32<=3 d\nint32[99999999999] e\n"
	e := compile(t, unit{"demo", "Bounds.msg", src})
	want := strings.Join([]string{
		"error SEM3003 Bounds.msg:1:7 array length must be positive, got 0",
		"error SEM3003 Bounds.msg:2:9 sequence bound must be positive, got -1",
		"error SEM3003 Bounds.msg:3:9 malformed string bound 'abc'",
		"error SEM3003 Bounds.msg:4:8 '<=' bound only applies to string, not int32",
		"error SEM3003 Bounds.msg:5:7 array length 99999999999 is too large",
	}, "\n")
	if got := e.golden(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDefaults(t *testing.T) {
	cases := []struct {
		decl string
		ok   bool
	}{
		{"int8 a 127", true},
		{"int8 a 128", false},
		{"int8 a -128", true},
		{"uint8 a -1", false},
		{"uint8 a -0", true},
		{"uint32 a -0x0", true},
		{"int32 a 1_000", true},
		{"int32 a 0x_1F", false},
		{"int32 a 1__0", false},
		{"uint8 a 0xff", true},
		{"uint64 a 18446744073709551615", true},
		{"int16 a 1.5", false},
		{"float32 a 1e39", false},
		{"float64 a -2.5e3", true},
		{"float64 a 3", true},
		{"bool a True", true},
		{"bool a 1", true},
		{"bool a yes", false},
		{"string a \"hi\"", true},
		{"string a hi", false},
		{"string<=2 a 'abc'", false},
		{"int32[3] a [1, 2, 3]", true},
		{"int32[3] a [1, 2]", false},
		{"int32[<=2] a [1, 2, 3]", false},
		{"int32[] a [1, 2, 3, 4]", true},
		{"int8[] a [1, 300]", false},
		{"string[] a ['x', \"y\"]", true},
	}
	for _, tc := range cases {
		e := compile(t, unit{"demo", "D.msg", tc.decl + "\n"})
		if got := !e.bag.HasErrors(); got != tc.ok {
			t.Errorf("%q: ok=%v, want %v\n%s", tc.decl, got, tc.ok, e.golden())
		}
		if !tc.ok && !e.bag.HasKind(diag.KindInvalidDefault) {
			t.Errorf("%q: want InvalidDefaultError\n%s", tc.decl, e.golden())
		}
	}
}

func TestIntegerLiteralMessages(t *testing.T) {
	e := compile(t, unit{"demo", "I.msg", "int32 BAD=1__0\nuint16 NEG=-5\nuint8 ZERO=-0\nint64 HEX=-0x1_0\n"})
	got := e.golden()
	for _, want := range []string{
		"invalid value for constant 'BAD' of type int32: malformed integer 1__0",
		"invalid value for constant 'NEG' of type uint16: -5 is out of range for uint16 [0, 65535]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if e.bag.ErrorCount() != 2 {
		t.Errorf("want 2 errors:\n%s", got)
	}
	spec := e.results[0].Schema.Message
	zero, hex := spec.Constants[2].Value, spec.Constants[3].Value
	if zero.Kind != model.ValueUint || zero.Uint != 0 || hex.Int != -16 {
		t.Errorf("constants: %+v", spec.Constants)
	}
}

func TestNestedDefaultRejected(t *testing.T) {
	e := compile(t,
		unit{"demo", "P.msg", "int32 v\n"},
		unit{"demo", "Q.msg", "P p 1\n"},
	)
	if !e.bag.HasKind(diag.KindInvalidDefault) {
		t.Fatalf("want InvalidDefaultError:\n%s", e.golden())
	}
}

func TestConstants(t *testing.T) {
	e := compile(t, unit{"demo", "C.msg", "int8 LOW=-3\nstring NAME=\"robot\"\nfloat64 PI=3.14159\nint8 HIGH=200\nint32[2] PAIR=[1, 2]\n"})
	want := strings.Join([]string{
		"error SEM3006 C.msg:4:11 invalid value for constant 'HIGH' of type int8: 200 is out of range for int8 [-128, 127]",
		"error SEM3006 C.msg:5:1 constant 'PAIR' has type int32[2]; constants must be a primitive or string",
	}, "\n")
	if got := e.golden(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	spec := e.results[0].Schema.Message
	if spec.Constants[0].Value.Int != -3 || spec.Constants[1].Value.Str != "robot" {
		t.Errorf("constant values: %+v", spec.Constants[:2])
	}
}

func TestDuplicateMessage(t *testing.T) {
	e := compile(t,
		unit{"demo", "a/Twice.msg", "int32 x\n"},
		unit{"demo", "b/Twice.msg", "int32 y\n"},
	)
	if !e.bag.HasKind(diag.KindDuplicateField) || e.bag.ErrorCount() != 1 {
		t.Fatalf("want one duplicate message error:\n%s", e.golden())
	}
	if !strings.Contains(e.golden(), "message demo/Twice is defined more than once") {
		t.Errorf("unexpected message:\n%s", e.golden())
	}
}

func TestStyleWarnings(t *testing.T) {
	e := compile(t, unit{"demo", "S.msg", "int32 camelCase\nint32 lower=1\nint32 ok_name\nint32 OK_CONST=2\n"})
	if e.bag.HasErrors() {
		t.Fatalf("style issues must not be errors:\n%s", e.golden())
	}
	want := strings.Join([]string{
		"warning SEM3100 S.msg:1:7 field name 'camelCase' should be snake_case: lowercase letters, digits and single underscores",
		"warning SEM3101 S.msg:2:7 constant name 'lower' should be UPPER_CASE",
	}, "\n")
	if got := e.golden(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestServiceHalves(t *testing.T) {
	e := compile(t, unit{"demo", "AddTwoInts.srv", "int64 a\nint64 b\n---\nint64 sum\n"})
	svc := e.results[0].Schema.Service
	if svc == nil || svc.Request.Name.Name != "AddTwoInts_Request" || svc.Response.Role != model.RoleResponse {
		t.Fatalf("service = %+v", svc)
	}
	if len(svc.Request.Fields) != 2 || len(svc.Response.Fields) != 1 {
		t.Errorf("halves: %d/%d fields", len(svc.Request.Fields), len(svc.Response.Fields))
	}
}
