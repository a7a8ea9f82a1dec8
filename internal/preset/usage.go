package preset

import (
	"regexp"
	"sync"

	"github.com/jsvensson/themevars/internal/generator"
)

// BackgroundImageProperty replaces the property of any declaration whose
// value is a background-image reference.
const BackgroundImageProperty = "background-image"

// Tracker records which bindings generated utilities reference.
type Tracker struct {
	registry   *Registry
	background map[string]bool
	pattern    *regexp.Regexp

	mu     sync.Mutex
	record []*Binding
}

// NewTracker returns a tracker matching references to variables that start
// with prefix. The whole first var() argument is captured, escapes included,
// so it compares equal to the name VariableName registered.
func NewTracker(registry *Registry, background map[string]bool, prefix string) *Tracker {
	return &Tracker{
		registry:   registry,
		background: background,
		pattern: regexp.MustCompile(`var\((` + regexp.QuoteMeta(prefix) +
			`-(?:\\[0-9a-fA-F]{1,6} ?|\\.|[^,)\s\\])+)`),
	}
}

// Observe scans the utility's declarations for variable references and
// appends every registered match to the record. Declarations whose value is
// a background-image reference get their property rewritten.
func (t *Tracker) Observe(u *generator.Utility) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range u.Entries {
		e := &u.Entries[i]
		for _, m := range t.pattern.FindAllStringSubmatch(e.Value, -1) {
			if b, ok := t.registry.Get(m[1]); ok {
				t.record = append(t.record, b)
			}
		}
		if t.background[e.Value] {
			e.Property = BackgroundImageProperty
		}
	}
}

// Record returns a copy of the recorded bindings in observation order.
func (t *Tracker) Record() []*Binding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Binding(nil), t.record...)
}

// Reset empties the record.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record = nil
}

// Merged folds the record into the declarations for one theme. Properties
// keep the position of their first occurrence; later entries win on value.
func (t *Tracker) Merged(theme string) []Declaration {
	record := t.Record()

	index := make(map[string]int)
	var out []Declaration
	for _, b := range record {
		d, ok := b.PerTheme[theme]
		if !ok {
			continue
		}
		if i, seen := index[d.Property]; seen {
			out[i] = d
			continue
		}
		index[d.Property] = len(out)
		out = append(out, d)
	}
	return out
}
