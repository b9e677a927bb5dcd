package layout

import "sort"

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
	// MaxObjectSize caps the byte size of a single fixed array or message.
	MaxObjectSize int64
}

const defaultMaxObjectSize = 1<<31 - 1

func X86_64LinuxGNU() Target {
	return Target{
		Triple:        "x86_64-linux-gnu",
		PtrSize:       8,
		PtrAlign:      8,
		MaxObjectSize: defaultMaxObjectSize,
	}
}

func AArch64LinuxGNU() Target {
	return Target{
		Triple:        "aarch64-linux-gnu",
		PtrSize:       8,
		PtrAlign:      8,
		MaxObjectSize: defaultMaxObjectSize,
	}
}

var targets = map[string]func() Target{
	"x86_64-linux-gnu":  X86_64LinuxGNU,
	"aarch64-linux-gnu": AArch64LinuxGNU,
}

// TargetByTriple returns a known target; "" selects x86_64-linux-gnu.
func TargetByTriple(triple string) (Target, bool) {
	if triple == "" {
		return X86_64LinuxGNU(), true
	}
	mk, ok := targets[triple]
	if !ok {
		return Target{}, false
	}
	return mk(), true
}

// KnownTriples lists supported triples in sorted order.
func KnownTriples() []string {
	out := make([]string, 0, len(targets))
	for t := range targets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
