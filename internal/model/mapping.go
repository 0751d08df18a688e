package model

import (
	"sort"
	"strings"
)

// ReservedKeyPrefix marks mapping keys reserved for internal metadata.
// Nothing writes such keys today; rows using it are hidden from display only.
const ReservedKeyPrefix = "__"

// Mapping is the concrete credential assigned to a type.
type Mapping struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Mappings is the whole mapping document keyed by type name.
type Mappings map[string]Mapping

// MappingRow is a single displayable entry of Mappings.
type MappingRow struct {
	Type string
	Mapping
}

// IsReservedKey reports whether key is reserved for internal metadata.
func IsReservedKey(key string) bool {
	return strings.HasPrefix(key, ReservedKeyPrefix)
}

// Rows returns the visible rows sorted by type. Reserved keys are skipped.
// Decoded documents carry no key order, so the file's order is not kept.
func (m Mappings) Rows() []MappingRow {
	rows := make([]MappingRow, 0, len(m))
	for t, mapping := range m {
		if IsReservedKey(t) {
			continue
		}
		rows = append(rows, MappingRow{Type: t, Mapping: mapping})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Type < rows[j].Type
	})
	return rows
}

// Clone returns a shallow copy of the document.
func (m Mappings) Clone() Mappings {
	c := make(Mappings, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
