package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ytget/credential-mapper/internal/apperr"
	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/model"
	"github.com/ytget/credential-mapper/internal/platform"
	"github.com/ytget/credential-mapper/internal/store"
)

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

// failingTypes rejects every save.
type failingTypes struct {
	TypeRepository
}

func (failingTypes) Save([]string, map[string]bool) error {
	return apperr.WriteFailed("Failed to save types.", errors.New("disk full"))
}

func newTestService(t *testing.T) (*Service, *recordingBus, string) {
	t.Helper()
	dir := t.TempDir()
	bus := &recordingBus{}
	types := store.NewTypeStore(func() string { return platform.TypesFilePath(dir) }, nil)
	mappings := store.NewMappingStore(func() string { return platform.MappingFilePath(dir) }, nil)
	svc := NewService(types, mappings, bus, nil)
	if err := svc.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return svc, bus, dir
}

func TestLoad_SubstitutesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	types := svc.Types()
	if len(types) != len(model.DefaultTypes) {
		t.Fatalf("Expected %d default types, got %d", len(model.DefaultTypes), len(types))
	}
	if types[0] != model.DefaultTypes[0] {
		t.Errorf("Expected defaults in order, first is %s", types[0])
	}
	if len(svc.Rows()) != 0 {
		t.Errorf("Expected no rows, got %d", len(svc.Rows()))
	}
}

func TestLoad_KeepsPersistedTypes(t *testing.T) {
	dir := t.TempDir()
	doc := `{"types":["zeta","alpha"],"typeStates":{"alpha":false}}`
	if err := os.WriteFile(platform.TypesFilePath(dir), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(
		store.NewTypeStore(func() string { return platform.TypesFilePath(dir) }, nil),
		store.NewMappingStore(func() string { return platform.MappingFilePath(dir) }, nil),
		nil, nil,
	)
	if err := svc.Load(); err != nil {
		t.Fatal(err)
	}

	enabled := svc.EnabledTypes()
	if len(enabled) != 1 || enabled[0] != "zeta" {
		t.Errorf("Expected [zeta], got %v", enabled)
	}
	if svc.IsTypeEnabled("alpha") {
		t.Error("alpha should be disabled")
	}
	if !svc.IsTypeEnabled("unknown") {
		t.Error("types without a state entry are enabled")
	}
}

func TestLoad_CorruptMappings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(platform.MappingFilePath(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(
		store.NewTypeStore(func() string { return platform.TypesFilePath(dir) }, nil),
		store.NewMappingStore(func() string { return platform.MappingFilePath(dir) }, nil),
		nil, nil,
	)
	err := svc.Load()
	if !apperr.Is(err, apperr.KindRead) {
		t.Fatalf("Expected read error, got %v", err)
	}
}

func TestSaveMapping(t *testing.T) {
	svc, bus, _ := newTestService(t)

	if err := svc.SaveMapping("  openAiApi ", " c1 ", " Cred One "); err != nil {
		t.Fatalf("SaveMapping failed: %v", err)
	}

	got, ok := svc.Lookup("openAiApi")
	if !ok || got.ID != "c1" || got.Name != "Cred One" {
		t.Errorf("Unexpected mapping %+v (found=%v)", got, ok)
	}

	// A fresh read agrees with the cache
	fresh, err := svc.Mappings()
	if err != nil {
		t.Fatal(err)
	}
	if fresh["openAiApi"] != got {
		t.Errorf("File and cache disagree: %+v vs %+v", fresh["openAiApi"], got)
	}

	if len(bus.events) != 1 {
		t.Fatalf("Expected one change event, got %d", len(bus.events))
	}
	changed := bus.events[0].(events.MappingsChanged)
	if changed.Type != "openAiApi" || changed.Deleted {
		t.Errorf("Unexpected event %+v", changed)
	}
}

func TestSaveMapping_Overwrite(t *testing.T) {
	svc, _, _ := newTestService(t)

	_ = svc.SaveMapping("githubApi", "a", "First")
	_ = svc.SaveMapping("githubApi", "b", "Second")
	_ = svc.SaveMapping("slackApi", "a", "First")

	rows := svc.Rows()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Type != "githubApi" || rows[0].ID != "b" {
		t.Errorf("Expected overwritten githubApi first, got %+v", rows[0])
	}
}

func TestSaveMapping_Validation(t *testing.T) {
	svc, bus, _ := newTestService(t)

	tests := []struct{ t, id, name string }{
		{"", "c1", "n"},
		{"openAiApi", "  ", "n"},
		{"openAiApi", "c1", ""},
	}
	for _, test := range tests {
		err := svc.SaveMapping(test.t, test.id, test.name)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("SaveMapping(%q, %q, %q): expected validation error, got %v", test.t, test.id, test.name, err)
		}
	}
	if len(bus.events) != 0 {
		t.Errorf("Invalid saves should not publish, got %d events", len(bus.events))
	}
}

func TestDeleteMapping(t *testing.T) {
	svc, bus, _ := newTestService(t)

	_ = svc.SaveMapping("openAiApi", "c1", "Cred One")
	if err := svc.DeleteMapping("openAiApi"); err != nil {
		t.Fatalf("DeleteMapping failed: %v", err)
	}
	if _, ok := svc.Lookup("openAiApi"); ok {
		t.Error("Mapping should be gone")
	}
	if err := svc.DeleteMapping("neverSaved"); err != nil {
		t.Errorf("Deleting a missing type should succeed, got %v", err)
	}

	last := bus.events[len(bus.events)-1].(events.MappingsChanged)
	if !last.Deleted {
		t.Error("Expected a deletion event")
	}
}

func TestRows_HidesReservedKeys(t *testing.T) {
	svc, _, dir := newTestService(t)

	doc := `{"__meta":{"id":"x","name":"x"},"custom":{"id":"1","name":"One"}}`
	if err := os.WriteFile(platform.MappingFilePath(dir), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Mappings(); err != nil {
		t.Fatal(err)
	}

	rows := svc.Rows()
	if len(rows) != 1 || rows[0].Type != "custom" {
		t.Errorf("Expected only the custom row, got %+v", rows)
	}
}

func TestDefaultTypesCannotBeRemoved(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, d := range []string{"openAiApi", "smtp", "s3"} {
		if err := svc.RemoveType(d); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("RemoveType(%s): expected validation error, got %v", d, err)
		}
	}
	if len(svc.Types()) != len(model.DefaultTypes) {
		t.Error("Default types must stay in the list")
	}

	if err := svc.SetTypeEnabled("smtp", false); err != nil {
		t.Fatal(err)
	}
	if svc.IsTypeEnabled("smtp") {
		t.Error("Default types can be disabled")
	}
}

func TestDisabledTypeKeepsRows(t *testing.T) {
	svc, _, _ := newTestService(t)

	_ = svc.SaveMapping("openAiApi", "c1", "Cred One")
	if err := svc.SetTypeEnabled("openAiApi", false); err != nil {
		t.Fatal(err)
	}

	for _, e := range svc.EnabledTypes() {
		if e == "openAiApi" {
			t.Fatal("Disabled type should not be offered")
		}
	}
	rows := svc.Rows()
	if len(rows) != 1 || rows[0].Type != "openAiApi" {
		t.Errorf("Disabled type should still be listed, got %+v", rows)
	}
}

func TestAddType(t *testing.T) {
	svc, _, dir := newTestService(t)

	added, err := svc.AddType("  myCustomApi ")
	if err != nil {
		t.Fatalf("AddType failed: %v", err)
	}
	if added != "myCustomApi" {
		t.Errorf("Expected trimmed name, got %q", added)
	}

	types := svc.Types()
	if types[len(types)-1] != "myCustomApi" {
		t.Error("Custom type should be appended")
	}
	if svc.IsDefaultType("myCustomApi") {
		t.Error("Custom type must not be default")
	}

	if _, err := svc.AddType("myCustomApi"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Duplicate add: expected validation error, got %v", err)
	}
	if _, err := svc.AddType("   "); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Empty add: expected validation error, got %v", err)
	}
	// Matching is case-sensitive
	if _, err := svc.AddType("MyCustomApi"); err != nil {
		t.Errorf("Different case should be accepted, got %v", err)
	}

	// Persisted
	var registry model.TypeRegistry
	if err := platform.ReadJSON(filepath.Join(dir, platform.TypesFileName), &registry); err != nil {
		t.Fatal(err)
	}
	if !registry.Contains("myCustomApi") {
		t.Error("Custom type was not written to disk")
	}
}

func TestRemoveType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _ = svc.AddType("myCustomApi")
	_ = svc.SaveMapping("myCustomApi", "c1", "Cred")

	if err := svc.RemoveType("myCustomApi"); err != nil {
		t.Fatalf("RemoveType failed: %v", err)
	}
	for _, ty := range svc.Types() {
		if ty == "myCustomApi" {
			t.Fatal("Type should be removed")
		}
	}
	if _, ok := svc.Lookup("myCustomApi"); !ok {
		t.Error("Removing a type must not touch its mapping")
	}

	if err := svc.RemoveType("myCustomApi"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestRestoreDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _ = svc.AddType("myCustomApi")
	_ = svc.SetTypeEnabled("githubApi", false)
	_ = svc.SetTypeEnabled("myCustomApi", false)

	if err := svc.RestoreDefaults(); err != nil {
		t.Fatalf("RestoreDefaults failed: %v", err)
	}

	types := svc.Types()
	if len(types) != len(model.DefaultTypes) {
		t.Fatalf("Expected %d types, got %d", len(model.DefaultTypes), len(types))
	}
	for i := range types {
		if types[i] != model.DefaultTypes[i] {
			t.Fatalf("Type %d: expected %s, got %s", i, model.DefaultTypes[i], types[i])
		}
	}
	if svc.IsTypeEnabled("githubApi") {
		t.Error("States keyed by a default name should be kept")
	}
	if states := svc.TypeStates(); states["myCustomApi"] {
		t.Error("Custom state entry should be kept as persisted (false)")
	}
}

func TestTypeChangeFailureKeepsCache(t *testing.T) {
	dir := t.TempDir()
	types := store.NewTypeStore(func() string { return platform.TypesFilePath(dir) }, nil)
	svc := NewService(
		failingTypes{types},
		store.NewMappingStore(func() string { return platform.MappingFilePath(dir) }, nil),
		nil, nil,
	)
	if err := svc.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddType("x"); !apperr.Is(err, apperr.KindWrite) {
		t.Fatalf("Expected write error, got %v", err)
	}
	if len(svc.Types()) != len(model.DefaultTypes) {
		t.Error("Failed save must not change the cached list")
	}
}

func TestReloadPaths(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	current := first
	resolveTypes := func() string { return platform.TypesFilePath(current) }
	resolveMappings := func() string { return platform.MappingFilePath(current) }

	svc := NewService(store.NewTypeStore(resolveTypes, nil), store.NewMappingStore(resolveMappings, nil), nil, nil)
	if svc.MappingFilePath() != platform.MappingFilePath(first) {
		t.Fatalf("Unexpected initial path %s", svc.MappingFilePath())
	}

	current = second
	mappingPath, typesPath := svc.ReloadPaths()
	if mappingPath != platform.MappingFilePath(second) || typesPath != platform.TypesFilePath(second) {
		t.Errorf("Paths not re-resolved: %s, %s", mappingPath, typesPath)
	}
}
