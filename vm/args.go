package vm

// Args is the call-argument bundle handed to native entry points. The
// callable layer passes it through unchanged; unpacking and validation are
// the entry point's responsibility.
type Args struct {
	Positional []Value
	Keyword    map[string]Value
}

// NewArgs creates an argument bundle from positional values.
func NewArgs(positional ...Value) *Args {
	return &Args{Positional: positional}
}

// WithKeyword returns the bundle with a keyword argument added.
func (a *Args) WithKeyword(name string, v Value) *Args {
	if a.Keyword == nil {
		a.Keyword = make(map[string]Value)
	}
	a.Keyword[name] = v
	return a
}

// Prepend returns a new bundle with v inserted before the positional
// arguments. The receiver is not mutated; bound methods use this to supply
// their target without disturbing the caller's bundle.
func (a *Args) Prepend(v Value) *Args {
	positional := make([]Value, 0, len(a.Positional)+1)
	positional = append(positional, v)
	positional = append(positional, a.Positional...)
	var keyword map[string]Value
	if len(a.Keyword) > 0 {
		keyword = make(map[string]Value, len(a.Keyword))
		for name, kv := range a.Keyword {
			keyword[name] = kv
		}
	}
	return &Args{Positional: positional, Keyword: keyword}
}

// Len returns the number of positional arguments.
func (a *Args) Len() int {
	return len(a.Positional)
}

// Get returns the positional argument at index i, or nil if out of range.
func (a *Args) Get(i int) Value {
	if i < 0 || i >= len(a.Positional) {
		return NilValue()
	}
	return a.Positional[i]
}
