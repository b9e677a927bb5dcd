package diag

import (
	"errors"
	"fmt"
	"sort"

	"rosgen/internal/source"
)

// Bag collects diagnostics of one unit of work. Not safe for concurrent use:
// parallel units fill their own bags and the driver merges them.
type Bag struct {
	items      []*Diagnostic
	max        int
	dropped    int
	droppedErr bool
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]*Diagnostic, 0, capacity),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// A dropped error still makes HasErrors true.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		if d.Severity >= SevError {
			b.droppedErr = true
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Dropped returns how many diagnostics exceeded the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	if b.droppedErr {
		return true
	}
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity >= SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount counts stored error diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Severity >= SevError {
			n++
		}
	}
	return n
}

// HasKind reports whether an error of kind k was collected.
func (b *Bag) HasKind(k Kind) bool {
	for _, d := range b.items {
		if d.Severity >= SevError && d.Code.Kind() == k {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge appends every diagnostic from other, respecting this bag's limit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
	b.droppedErr = b.droppedErr || other.droppedErr
}

// Sort orders diagnostics by file, start, end, severity (desc), code and message
// so output does not depend on scheduling.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}

// Dedup drops repeated diagnostics with the same code, span and message.
func (b *Bag) Dedup() {
	seen := make(map[string]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%d:%s:%s:%s", d.Code, d.Path, d.Primary, d.Message)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}

// Err joins every error diagnostic into one error; nil when the bag has none.
// Each joined error matches its taxonomy sentinel via errors.Is.
func (b *Bag) Err(fs *source.FileSet) error {
	var errs []error
	for _, d := range b.items {
		if d.Severity >= SevError {
			errs = append(errs, AsError(d, fs))
		}
	}
	if b.droppedErr {
		errs = append(errs, fmt.Errorf("%d more diagnostics not shown", b.dropped))
	}
	return errors.Join(errs...)
}
