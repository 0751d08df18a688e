package catalog

import (
	"github.com/ytget/credential-mapper/internal/model"
)

// MappingRepository persists the type → {id, name} document.
type MappingRepository interface {
	Path() string
	Reload() string
	Get() (model.Mappings, error)
	Save(t, id, name string) error
	Delete(t string) error
}

// TypeRepository persists the type registry.
type TypeRepository interface {
	Path() string
	Reload() string
	Get() (model.TypeRegistry, error)
	Save(types []string, typeStates map[string]bool) error
}

// Catalog defines the interface the UI drives.
type Catalog interface {
	Load() error

	Types() []string
	TypeStates() map[string]bool
	EnabledTypes() []string
	IsTypeEnabled(t string) bool
	IsDefaultType(t string) bool
	SetTypeEnabled(t string, enabled bool) error
	AddType(t string) (string, error)
	RemoveType(t string) error
	RestoreDefaults() error

	// Mappings re-reads the mapping file and refreshes the cache
	Mappings() (model.Mappings, error)
	Rows() []model.MappingRow
	Lookup(t string) (model.Mapping, bool)
	SaveMapping(t, id, name string) error
	DeleteMapping(t string) error

	MappingFilePath() string
	ReloadPaths() (mappingPath, typesPath string)
}
