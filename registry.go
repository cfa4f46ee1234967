package specdoc

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Registry holds the preprocessor hooks applied to every document, in
// registration order. Register hooks during startup; Run may then be called
// from any number of goroutines since it only reads the hook list.
type Registry struct {
	hooks []Preprocessor
	names map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends p to the hook chain.
func (r *Registry) Register(p Preprocessor) error {
	if isNilHook(p) {
		return ErrNilPreprocessor
	}
	name := p.Name()
	if name == "" {
		return ErrUnnamedPreprocessor
	}
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePreprocessor, name)
	}
	r.names[name] = struct{}{}
	r.hooks = append(r.hooks, p)
	return nil
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int { return len(r.hooks) }

// Names returns hook names in execution order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.hooks))
	for i, h := range r.hooks {
		names[i] = h.Name()
	}
	return names
}

// Run passes text through every hook. The first hook reads text verbatim;
// each later hook reads the previous hook's lines, and the last output
// replaces the document. The first error stops the pass and is returned as is.
func (r *Registry) Run(ctx context.Context, text string) ([]string, error) {
	if len(r.hooks) == 0 {
		return SplitLines(text), nil
	}

	src := text
	var lines []string
	for _, h := range r.hooks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := h.Process(ctx, strings.NewReader(src))
		if err != nil {
			return nil, err
		}
		lines = out
		src = JoinLines(out)
	}
	return lines, nil
}

// isNilHook reports whether p is nil or wraps a nil pointer, such as a
// (*ScriptFilter)(nil) stored in the interface.
func isNilHook(p Preprocessor) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
