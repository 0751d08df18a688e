package model

// TypeRegistry is the persisted set of known types and their enable flags.
// It is stored as {"types": [...], "typeStates": {...}}.
type TypeRegistry struct {
	Types      []string        `json:"types"`
	TypeStates map[string]bool `json:"typeStates"`
}

// NewTypeRegistry returns an empty registry with a non-nil state map.
func NewTypeRegistry() TypeRegistry {
	return TypeRegistry{
		Types:      []string{},
		TypeStates: map[string]bool{},
	}
}

// IsTypeEnabled reports whether t is enabled. A missing entry means enabled.
func (r TypeRegistry) IsTypeEnabled(t string) bool {
	enabled, ok := r.TypeStates[t]
	return !ok || enabled
}

// EnabledTypes returns Types filtered by IsTypeEnabled, keeping the persisted order.
func (r TypeRegistry) EnabledTypes() []string {
	out := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		if r.IsTypeEnabled(t) {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether t is present in Types (exact match).
func (r TypeRegistry) Contains(t string) bool {
	return r.indexOf(t) >= 0
}

func (r TypeRegistry) indexOf(t string) int {
	for i, existing := range r.Types {
		if existing == t {
			return i
		}
	}
	return -1
}

// Without returns a copy of Types with t removed.
func (r TypeRegistry) Without(t string) []string {
	out := make([]string, 0, len(r.Types))
	for _, existing := range r.Types {
		if existing != t {
			out = append(out, existing)
		}
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (r TypeRegistry) Clone() TypeRegistry {
	c := TypeRegistry{
		Types:      make([]string, len(r.Types)),
		TypeStates: make(map[string]bool, len(r.TypeStates)),
	}
	copy(c.Types, r.Types)
	for k, v := range r.TypeStates {
		c.TypeStates[k] = v
	}
	return c
}
