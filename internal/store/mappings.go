package store

import (
	"strings"
	"sync"

	"github.com/ytget/credential-mapper/internal/apperr"
	"github.com/ytget/credential-mapper/internal/logger"
	"github.com/ytget/credential-mapper/internal/model"
	"github.com/ytget/credential-mapper/internal/platform"
)

// Error messages shown to the user.
const (
	msgReadMappings   = "Failed to read mapping file."
	msgSaveMapping    = "Failed to save mapping."
	msgDeleteMapping  = "Failed to delete mapping."
	msgMissingMapping = "Type, id and name are required"
)

// PathFunc resolves a data file path. It is called at construction and on Reload.
type PathFunc func() string

// MappingStore reads and writes the type → {id, name} document.
type MappingStore struct {
	mu      sync.Mutex
	resolve PathFunc
	path    string
	log     *logger.Logger
}

// NewMappingStore creates a store for the file returned by resolve.
func NewMappingStore(resolve PathFunc, log *logger.Logger) *MappingStore {
	if log == nil {
		log = logger.Discard()
	}
	return &MappingStore{
		resolve: resolve,
		path:    resolve(),
		log:     log.With("component", "mapping_store"),
	}
}

// Path returns the current file path.
func (s *MappingStore) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Reload re-resolves the file path.
func (s *MappingStore) Reload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = s.resolve()
	return s.path
}

// Get returns the whole mapping document. The file is created as {} when absent.
func (s *MappingStore) Get() (model.Mappings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read()
	if err != nil {
		return nil, apperr.ReadFailed(msgReadMappings, err).WithOp("mappings.get")
	}
	return mappings, nil
}

// Save inserts or overwrites the entry for t. All fields are trimmed and must be non-empty.
func (s *MappingStore) Save(t, id, name string) error {
	in := newMappingInput(t, id, name)
	if err := validate.Struct(in); err != nil {
		return apperr.Validation(msgMissingMapping + ": " + strings.Join(missingFields(err), ", ")).WithOp("mappings.save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read()
	if err != nil {
		return apperr.ReadFailed(msgSaveMapping, err).WithOp("mappings.save")
	}

	mappings[in.Type] = model.Mapping{ID: in.ID, Name: in.Name}
	if err := platform.WriteJSON(s.path, mappings); err != nil {
		s.log.StoreError("save", s.path, err)
		return apperr.WriteFailed(msgSaveMapping, err).WithOp("mappings.save")
	}

	s.log.Debug("mapping saved", "type", in.Type)
	return nil
}

// Delete removes the entry for t. Deleting a missing type succeeds.
func (s *MappingStore) Delete(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.read()
	if err != nil {
		return apperr.ReadFailed(msgDeleteMapping, err).WithOp("mappings.delete")
	}

	if _, ok := mappings[t]; !ok {
		return nil
	}

	delete(mappings, t)
	if err := platform.WriteJSON(s.path, mappings); err != nil {
		s.log.StoreError("delete", s.path, err)
		return apperr.WriteFailed(msgDeleteMapping, err).WithOp("mappings.delete")
	}

	s.log.Debug("mapping deleted", "type", t)
	return nil
}

// read loads the document, creating the file first if needed. Caller holds mu.
func (s *MappingStore) read() (model.Mappings, error) {
	if err := platform.EnsureFile(s.path, []byte("{}")); err != nil {
		s.log.StoreError("ensure", s.path, err)
		return nil, err
	}

	var mappings model.Mappings
	if err := platform.ReadJSON(s.path, &mappings); err != nil {
		s.log.StoreError("read", s.path, err)
		return nil, err
	}
	if mappings == nil {
		mappings = model.Mappings{}
	}
	return mappings, nil
}
