package ui

import (
	"testing"

	"github.com/ytget/credential-mapper/internal/model"
)

func newTestSettingsDialog(t *testing.T) (*fixture, *SettingsDialog, *int) {
	t.Helper()
	f := newFixture(t)
	changes := 0
	sd := NewSettingsDialog(f.settings, f.catalog, f.ui.localization, f.window)
	sd.SetCallbacks(func() {
		changes++
		f.ui.updateTypeOptions()
	}, f.ui.onSettingsSaved)
	sd.Show()
	return f, sd, &changes
}

func TestSettingsDialog_AddAndRemoveType(t *testing.T) {
	f, sd, changes := newTestSettingsDialog(t)

	sd.newTypeEntry.SetText("  myCustomApi ")
	sd.onAddType()

	if sd.newTypeEntry.Text != "" {
		t.Error("Entry should clear after adding")
	}
	if sd.types[len(sd.types)-1] != "myCustomApi" {
		t.Error("Added type should appear in the list")
	}
	if !containsString(f.ui.typeSelect.Options, "myCustomApi") {
		t.Error("Added type should appear in the form dropdown")
	}

	sd.onRemoveType("myCustomApi")
	if containsString(sd.types, "myCustomApi") {
		t.Error("Removed type should leave the list")
	}
	if *changes != 2 {
		t.Errorf("Expected 2 change callbacks, got %d", *changes)
	}
}

func TestSettingsDialog_DuplicateTypeRejected(t *testing.T) {
	_, sd, changes := newTestSettingsDialog(t)

	sd.newTypeEntry.SetText(model.DefaultTypes[0])
	sd.onAddType()

	if len(sd.types) != len(model.DefaultTypes) {
		t.Error("Duplicate must not be added")
	}
	if sd.newTypeEntry.Text != model.DefaultTypes[0] {
		t.Error("Entry keeps the rejected text")
	}
	if *changes != 0 {
		t.Error("No change callback for a rejected add")
	}
}

func TestSettingsDialog_DefaultTypeNotRemovable(t *testing.T) {
	_, sd, _ := newTestSettingsDialog(t)

	sd.onRemoveType(model.DefaultTypes[0])

	if !containsString(sd.types, model.DefaultTypes[0]) {
		t.Error("Default type must stay")
	}
}

func TestSettingsDialog_ToggleType(t *testing.T) {
	f, sd, _ := newTestSettingsDialog(t)

	sd.onToggleType("githubApi", false)

	if f.catalog.IsTypeEnabled("githubApi") {
		t.Error("Type should be disabled")
	}
	if containsString(f.ui.typeSelect.Options, "githubApi") {
		t.Error("Disabled type should leave the dropdown")
	}
	if !containsString(sd.types, "githubApi") {
		t.Error("Disabled type stays in the settings list")
	}
}

func TestSettingsDialog_SavePreferences(t *testing.T) {
	f, sd, _ := newTestSettingsDialog(t)

	sd.autoStartCheck.SetChecked(true)
	sd.confirmCheck.SetChecked(false)
	sd.languageSelect.SetSelected("ru")
	sd.onSave(true)

	if !f.settings.GetAutoStartRelay() {
		t.Error("Auto-start should be saved")
	}
	if f.settings.GetConfirmDelete() {
		t.Error("Confirm-delete should be saved")
	}
	if f.ui.localization.GetCurrentLanguage() != "ru" {
		t.Error("Language change should apply to the window")
	}
}

func TestSettingsDialog_CancelKeepsPreferences(t *testing.T) {
	f, sd, _ := newTestSettingsDialog(t)

	sd.confirmCheck.SetChecked(false)
	sd.onSave(false)

	if !f.settings.GetConfirmDelete() {
		t.Error("Cancel must not save preferences")
	}
}
