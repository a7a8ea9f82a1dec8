package preset

// Declaration is a single custom property assignment.
type Declaration struct {
	Property string
	Value    string
}

// Binding ties a variable to the value each theme assigns it. Themes without
// a value at the binding's path have no entry.
type Binding struct {
	Name     string
	Path     KeyPath
	PerTheme map[string]Declaration
}

// Value returns the value bound for theme.
func (b *Binding) Value(theme string) (string, bool) {
	d, ok := b.PerTheme[theme]
	return d.Value, ok
}

// Registry maps variable names to bindings, keeping registration order.
type Registry struct {
	order    []string
	bindings map[string]*Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]*Binding)}
}

// ensure returns the binding for name, creating it for path when absent.
func (r *Registry) ensure(name string, path KeyPath) *Binding {
	if b, ok := r.bindings[name]; ok {
		return b
	}
	b := &Binding{Name: name, Path: path, PerTheme: make(map[string]Declaration)}
	r.bindings[name] = b
	r.order = append(r.order, name)
	return b
}

// set records theme's value for the binding. Other themes' entries are left
// untouched.
func (b *Binding) set(theme, value string) {
	b.PerTheme[theme] = Declaration{Property: b.Name, Value: value}
}

// Get returns the binding registered under name.
func (r *Registry) Get(name string) (*Binding, bool) {
	b, ok := r.bindings[name]
	return b, ok
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	return len(r.order)
}

// Bindings returns all bindings in registration order.
func (r *Registry) Bindings() []*Binding {
	out := make([]*Binding, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.bindings[name])
	}
	return out
}
