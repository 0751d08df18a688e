package store

import (
	"path/filepath"
	"sync"

	"github.com/ytget/credential-mapper/internal/apperr"
	"github.com/ytget/credential-mapper/internal/logger"
	"github.com/ytget/credential-mapper/internal/model"
	"github.com/ytget/credential-mapper/internal/platform"
)

const (
	msgReadTypes = "Failed to read types file."
	msgSaveTypes = "Failed to save types."
)

// TypeStore reads and writes the {types, typeStates} registry document.
type TypeStore struct {
	mu      sync.Mutex
	resolve PathFunc
	path    string
	log     *logger.Logger
}

// NewTypeStore creates a store for the file returned by resolve.
func NewTypeStore(resolve PathFunc, log *logger.Logger) *TypeStore {
	if log == nil {
		log = logger.Discard()
	}
	return &TypeStore{
		resolve: resolve,
		path:    resolve(),
		log:     log.With("component", "type_store"),
	}
}

// Path returns the current file path.
func (s *TypeStore) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Reload re-resolves the file path.
func (s *TypeStore) Reload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = s.resolve()
	return s.path
}

// Get returns the persisted registry. An absent file is materialized as an
// empty registry; substituting the default list is left to the caller.
func (s *TypeStore) Get() (model.TypeRegistry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	initial, err := platform.MarshalIndented(model.NewTypeRegistry())
	if err != nil {
		return model.TypeRegistry{}, apperr.ReadFailed(msgReadTypes, err).WithOp("types.get")
	}
	if err := platform.EnsureFile(s.path, initial); err != nil {
		s.log.StoreError("ensure", s.path, err)
		return model.TypeRegistry{}, apperr.ReadFailed(msgReadTypes, err).WithOp("types.get")
	}

	var registry model.TypeRegistry
	if err := platform.ReadJSON(s.path, &registry); err != nil {
		s.log.StoreError("read", s.path, err)
		return model.TypeRegistry{}, apperr.ReadFailed(msgReadTypes, err).WithOp("types.get")
	}
	if registry.Types == nil {
		registry.Types = []string{}
	}
	if registry.TypeStates == nil {
		registry.TypeStates = map[string]bool{}
	}
	return registry, nil
}

// Save overwrites the registry file wholesale.
func (s *TypeStore) Save(types []string, typeStates map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry := model.TypeRegistry{Types: types, TypeStates: typeStates}
	if registry.Types == nil {
		registry.Types = []string{}
	}
	if registry.TypeStates == nil {
		registry.TypeStates = map[string]bool{}
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(s.path)); err != nil {
		s.log.StoreError("save", s.path, err)
		return apperr.WriteFailed(msgSaveTypes, err).WithOp("types.save")
	}
	if err := platform.WriteJSON(s.path, registry); err != nil {
		s.log.StoreError("save", s.path, err)
		return apperr.WriteFailed(msgSaveTypes, err).WithOp("types.save")
	}

	s.log.Debug("types saved", "count", len(registry.Types))
	return nil
}
