// Package preset binds theme values to CSS custom properties. It flattens a
// set of named themes into variables, rewrites the theme to reference them,
// tracks which variables generated utilities use and emits one selector
// scoped block of declarations per theme.
package preset

import (
	"context"
	"regexp"
	"sync"

	"github.com/jsvensson/themevars/internal/export"
	"github.com/jsvensson/themevars/internal/generator"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/tliron/commonlog"
)

const (
	// DefaultPrefix starts every generated variable name.
	DefaultPrefix = "--un-preset-theme"

	// ThemeLayer holds the variable blocks and sorts before the default layer.
	ThemeLayer = "theme"
)

var log = commonlog.GetLogger("themevars.preset")

// Options configures a ThemePreset.
type Options struct {
	Themes    []Theme
	Prefix    string
	Selectors map[string]string

	// ExportUsed writes a report of the used variables after every
	// generation. Failures are logged and never fail the generation.
	ExportUsed bool
	ExportPath string
}

// ThemePreset is the generator plugin that owns the variable bindings.
type ThemePreset struct {
	prefix   string
	themes   []Theme
	resolver SelectorResolver
	export   bool
	path     string

	result  *FlattenResult
	tracker *Tracker
	emitter *Emitter

	exportMu sync.Mutex
	pending  sync.WaitGroup
}

// New returns a preset for opts, filling in defaults.
func New(opts Options) *ThemePreset {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	path := opts.ExportPath
	if path == "" {
		path = export.DefaultPath
	}

	themes := EnsureDefault(opts.Themes)
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}

	return &ThemePreset{
		prefix:   prefix,
		themes:   themes,
		resolver: SelectorResolver{Overrides: opts.Selectors},
		export:   opts.ExportUsed,
		path:     path,
		emitter:  &Emitter{Themes: names},
	}
}

// Prefix returns the variable name prefix in use.
func (p *ThemePreset) Prefix() string {
	return p.prefix
}

// Resolver returns the selector resolver.
func (p *ThemePreset) Resolver() SelectorResolver {
	return p.resolver
}

// Result returns the flattening result. It is nil until the preset has been
// passed to generator.New.
func (p *ThemePreset) Result() *FlattenResult {
	return p.result
}

// Tracker returns the usage tracker. It is nil until the preset has been
// passed to generator.New.
func (p *ThemePreset) Tracker() *Tracker {
	return p.tracker
}

// Preset returns the generator registration for this preset.
func (p *ThemePreset) Preset() *generator.Preset {
	return &generator.Preset{
		Name: "theme",
		Rules: []generator.Rule{{
			Pattern:  regexp.MustCompile(`^` + regexp.QuoteMeta(Marker) + `:([\w-]+):`),
			Layer:    ThemeLayer,
			Volatile: true,
			Resolve:  p.resolveRule,
		}},
		Variants: []generator.Variant{{
			Name:  "preset-theme-rule",
			Match: p.matchVariant,
		}},
		Layers: map[string]int{
			ThemeLayer:             0,
			generator.DefaultLayer: 1,
		},
		Preflights: []generator.Preflight{{
			Layer:  ThemeLayer,
			GetCSS: p.preflight,
		}},
		Postprocess: []func(u *generator.Utility){p.observe},
		ExtendTheme: p.extendTheme,
		Prepare:     p.prepare,
	}
}

func (p *ThemePreset) extendTheme(base *tree.Node) *tree.Node {
	p.result = Flatten(base, p.themes, p.prefix)
	p.tracker = NewTracker(p.result.Registry, p.result.BackgroundImages, p.prefix)
	return p.result.Theme
}

func (p *ThemePreset) prepare() {
	if p.tracker != nil {
		p.tracker.Reset()
	}
}

func (p *ThemePreset) observe(u *generator.Utility) {
	if p.tracker != nil {
		p.tracker.Observe(u)
	}
}

// resolveRule answers a synthetic theme token with the used declarations of
// that theme.
func (p *ThemePreset) resolveRule(match []string, _ *generator.RuleContext) []generator.Entry {
	if p.tracker == nil {
		return nil
	}
	decls := p.tracker.Merged(match[1])
	entries := make([]generator.Entry, 0, len(decls))
	for _, d := range decls {
		entries = append(entries, generator.Entry{Property: d.Property, Value: d.Value})
	}
	return entries
}

// matchVariant scopes a synthetic theme token to the theme's selector. At-rule
// selectors become the parent and leave the selector for the emitter.
func (p *ThemePreset) matchVariant(token string) (generator.VariantMatch, bool) {
	name, ok := themeFromToken(token)
	if !ok {
		return generator.VariantMatch{}, false
	}
	sel := p.resolver.Resolve(name)
	if isAtRule(sel) {
		return generator.VariantMatch{Body: token, Parent: sel}, true
	}
	return generator.VariantMatch{
		Body:     token,
		Selector: func(string) string { return sel },
	}, true
}

func (p *ThemePreset) preflight(ctx context.Context, pc *generator.PreflightContext) (string, error) {
	css, err := p.emitter.Emit(ctx, pc.Generator)
	if err != nil {
		return "", err
	}
	if p.export {
		p.exportUsed()
	}
	return css, nil
}

// UsedRecords returns the export records for the current usage record,
// deduplicated by category and name.
func (p *ThemePreset) UsedRecords() []export.Record {
	set := export.NewSet()
	if p.tracker == nil {
		return set.Records()
	}
	for _, b := range p.tracker.Record() {
		def, _ := b.Value(DefaultTheme)
		set.Add(export.Record{
			Category:     b.Path.Category(),
			Name:         b.Path.Name(),
			VariableName: b.Name,
			DefaultValue: def,
		})
	}
	return set.Records()
}

// exportUsed writes the report in the background. Call Wait to block until
// pending writes finish.
func (p *ThemePreset) exportUsed() {
	records := p.UsedRecords()
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		p.exportMu.Lock()
		defer p.exportMu.Unlock()
		if err := export.Write(p.path, records); err != nil {
			log.Errorf("exporting used variables: %s", err.Error())
			return
		}
		log.Debugf("wrote %d used variables to %s", len(records), p.path)
	}()
}

// Wait blocks until every pending export has finished.
func (p *ThemePreset) Wait() {
	p.pending.Wait()
}
