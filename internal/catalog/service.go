package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/ytget/credential-mapper/internal/apperr"
	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/logger"
	"github.com/ytget/credential-mapper/internal/model"
)

// User-facing validation messages.
const (
	msgTypeRequired   = "Type name is required."
	msgTypeExists     = "Type already exists."
	msgTypeIsDefault  = "Default types cannot be removed, only disabled."
	msgTypeNotFound   = "Type not found."
	msgMappingMissing = "Type, id and name are required."
)

// Service caches the registry and mappings and applies every catalog rule.
type Service struct {
	mu       sync.RWMutex
	registry model.TypeRegistry
	mappings model.Mappings

	typeRepo    TypeRepository
	mappingRepo MappingRepository
	bus         events.Bus
	log         *logger.Logger
}

var _ Catalog = (*Service)(nil)

// NewService creates a catalog service. Call Load before use.
func NewService(types TypeRepository, mappings MappingRepository, bus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		registry:    model.TypeRegistry{Types: model.DefaultTypeList(), TypeStates: map[string]bool{}},
		mappings:    model.Mappings{},
		typeRepo:    types,
		mappingRepo: mappings,
		bus:         bus,
		log:         log.With("component", "catalog"),
	}
}

// Load reads both files. An empty persisted type list is replaced by the
// default list in memory; it is written back on the next type change.
func (s *Service) Load() error {
	registry, err := s.typeRepo.Get()
	if err != nil {
		return err
	}
	if len(registry.Types) == 0 {
		registry.Types = model.DefaultTypeList()
	}

	s.mu.Lock()
	s.registry = registry
	s.mu.Unlock()

	_, err = s.Mappings()
	return err
}

// Types returns all known types in persisted order.
func (s *Service) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Clone().Types
}

// TypeStates returns a copy of the enable flags.
func (s *Service) TypeStates() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Clone().TypeStates
}

// EnabledTypes returns the types offered for classification.
func (s *Service) EnabledTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.EnabledTypes()
}

func (s *Service) IsTypeEnabled(t string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.IsTypeEnabled(t)
}

func (s *Service) IsDefaultType(t string) bool {
	return model.IsDefaultType(t)
}

// SetTypeEnabled persists the flag for t. The type need not be known.
func (s *Service) SetTypeEnabled(t string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.registry.Clone()
	next.TypeStates[t] = enabled
	return s.commitTypes(next, "set_enabled")
}

// AddType appends a custom type and returns the trimmed name.
func (s *Service) AddType(t string) (string, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return "", apperr.Validation(msgTypeRequired).WithOp("catalog.add_type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.Contains(t) {
		return "", apperr.Validation(msgTypeExists).WithOp("catalog.add_type")
	}

	next := s.registry.Clone()
	next.Types = append(next.Types, t)
	if err := s.commitTypes(next, "add"); err != nil {
		return "", err
	}
	return t, nil
}

// RemoveType drops a custom type. Its mapping and state entries are kept.
func (s *Service) RemoveType(t string) error {
	if model.IsDefaultType(t) {
		return apperr.Validation(msgTypeIsDefault).WithOp("catalog.remove_type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Contains(t) {
		return apperr.NotFound(msgTypeNotFound).WithOp("catalog.remove_type")
	}

	next := s.registry.Clone()
	next.Types = s.registry.Without(t)
	return s.commitTypes(next, "remove")
}

// RestoreDefaults resets the type list to the defaults. Custom types are
// dropped; enable flags stay as they are, keyed by name.
func (s *Service) RestoreDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.registry.Clone()
	next.Types = model.DefaultTypeList()
	return s.commitTypes(next, "restore_defaults")
}

// commitTypes saves next and swaps it in on success. Caller holds mu.
func (s *Service) commitTypes(next model.TypeRegistry, action string) error {
	if err := s.typeRepo.Save(next.Types, next.TypeStates); err != nil {
		return err
	}
	s.registry = next
	s.log.Debug("types updated", "action", action, "count", len(next.Types))
	return nil
}

// Mappings re-reads the mapping file.
func (s *Service) Mappings() (model.Mappings, error) {
	mappings, err := s.mappingRepo.Get()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.mappings = mappings
	s.mu.Unlock()

	return mappings.Clone(), nil
}

// Rows returns the cached mappings as sorted display rows.
func (s *Service) Rows() []model.MappingRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings.Rows()
}

// Lookup returns the cached mapping for t.
func (s *Service) Lookup(t string) (model.Mapping, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[t]
	return m, ok
}

// SaveMapping trims and stores the mapping for t, overwriting any previous one.
func (s *Service) SaveMapping(t, id, name string) error {
	t, id, name = strings.TrimSpace(t), strings.TrimSpace(id), strings.TrimSpace(name)
	if t == "" || id == "" || name == "" {
		return apperr.Validation(msgMappingMissing).WithOp("catalog.save_mapping")
	}

	if err := s.mappingRepo.Save(t, id, name); err != nil {
		return err
	}

	s.mu.Lock()
	next := s.mappings.Clone()
	next[t] = model.Mapping{ID: id, Name: name}
	s.mappings = next
	s.mu.Unlock()

	s.log.Info("mapping saved", "type", t)
	s.publishChanged(t, false)
	return nil
}

// DeleteMapping removes the mapping for t. A missing entry is not an error.
func (s *Service) DeleteMapping(t string) error {
	if err := s.mappingRepo.Delete(t); err != nil {
		return err
	}

	s.mu.Lock()
	next := s.mappings.Clone()
	delete(next, t)
	s.mappings = next
	s.mu.Unlock()

	s.log.Info("mapping deleted", "type", t)
	s.publishChanged(t, true)
	return nil
}

// MappingFilePath returns where mappings are currently stored.
func (s *Service) MappingFilePath() string {
	return s.mappingRepo.Path()
}

// ReloadPaths re-resolves both data file locations.
func (s *Service) ReloadPaths() (mappingPath, typesPath string) {
	mappingPath = s.mappingRepo.Reload()
	typesPath = s.typeRepo.Reload()
	s.log.Info("data paths reloaded", "mappings", mappingPath, "types", typesPath)
	return mappingPath, typesPath
}

func (s *Service) publishChanged(t string, deleted bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(context.Background(), events.MappingsChanged{
		BaseEvent: events.NewBaseEvent(),
		Type:      t,
		Deleted:   deleted,
	})
}
