package emit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rosgen/internal/model"
	"rosgen/internal/types"
)

// методы сгенерированных типов; поле с таким именем получает суффикс "_"
var methodNames = map[string]bool{
	"Clone": true,
	"ToC":   true,
	"Fini":  true,
	"ToGo":  true,
}

// namer turns schema names into Go identifiers. A cases.Caser is stateful,
// so every generator owns its own namer.
type namer struct {
	title cases.Caser
}

func newNamer() *namer {
	return &namer{title: cases.Title(language.Und, cases.NoLower)}
}

// field converts a snake_case field name into an exported Go identifier:
// "frame_id" -> "FrameId".
func (n *namer) field(name string) string {
	var sb strings.Builder
	for part := range strings.SplitSeq(name, "_") {
		if part == "" {
			continue
		}
		sb.WriteString(n.title.String(part))
	}
	if sb.Len() == 0 {
		return "X_"
	}
	return exported(sb.String())
}

// fieldIdents returns the Go identifier of every field of msg, in order,
// with method collisions resolved. Two fields mapping to the same
// identifier are returned as a clash (indices into msg.Fields).
func (n *namer) fieldIdents(msg *model.MessageSpec, in *types.Interner) (idents []string, clash [2]int, ok bool) {
	idents = make([]string, len(msg.Fields))
	for i := range msg.Fields {
		id := n.field(msg.Fields[i].Name)
		if methodNames[id] {
			id += "_"
		}
		idents[i] = id
	}
	setters := make(map[string]bool)
	for i := range msg.Fields {
		if in.MustLookup(msg.Fields[i].Type).Kind == types.KindFixedArray {
			setters["Set"+idents[i]] = true
		}
	}
	for i, id := range idents {
		if setters[id] {
			idents[i] = id + "_"
		}
	}
	seen := make(map[string]int, len(idents))
	for i, id := range idents {
		if prev, dup := seen[id]; dup {
			return idents, [2]int{prev, i}, false
		}
		seen[id] = i
	}
	return idents, [2]int{}, true
}

// exported upper-cases the first rune.
func exported(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TypeIdent is the Go type name of a message or service half.
func TypeIdent(q types.QualifiedName) string { return exported(q.Name) }

// FileStem converts a schema name into the snake_case stem of its output
// file: "AddTwoInts" -> "add_two_ints", "HTTPHeader" -> "http_header".
func FileStem(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// msgAlias is the import alias of another package's messages: "geometry_msgs_msg".
func msgAlias(pkg string) string { return pkg + "_msg" }

// CSymbol is the rosidl_runtime_c struct name: "demo__msg__Sample".
func CSymbol(msg *model.MessageSpec) string {
	return msg.Name.Package + "__" + msg.Interface() + "__" + msg.Name.Name
}
