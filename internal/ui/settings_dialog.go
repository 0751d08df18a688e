package ui

import (
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/credential-mapper/internal/catalog"
	"github.com/ytget/credential-mapper/internal/config"
)

// SettingsDialog edits the credential type list and the app preferences.
// Type changes are saved as soon as they are made; preferences are saved
// with the dialog's Save button.
type SettingsDialog struct {
	settings     *config.Settings
	catalog      catalog.Catalog
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	types        []string
	typesList    *widget.List
	newTypeEntry *widget.Entry

	dataDirEntry   *widget.Entry
	autoStartCheck *widget.Check
	confirmCheck   *widget.Check
	languageSelect *widget.Select
	languageCodes  []string

	onTypesChanged func()
	onSaved        func(dataDirChanged bool)
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, cat catalog.Catalog, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		catalog:      cat,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// SetCallbacks sets what runs after a type change and after Save.
func (sd *SettingsDialog) SetCallbacks(onTypesChanged func(), onSaved func(dataDirChanged bool)) {
	sd.onTypesChanged = onTypesChanged
	sd.onSaved = onSaved
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.reloadTypes()
	sd.dialog.Show()
}

func (sd *SettingsDialog) text(key string) string {
	return sd.localization.GetText(key)
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.typesList = widget.NewList(
		func() int { return len(sd.types) },
		sd.createTypeItem,
		sd.updateTypeItem,
	)
	typesScroll := container.NewGridWrap(fyne.NewSize(SettingsDialogWidth-40, TypesListHeight), sd.typesList)

	sd.newTypeEntry = widget.NewEntry()
	sd.newTypeEntry.SetPlaceHolder(sd.text(KeyNewTypePlaceholder))
	sd.newTypeEntry.OnSubmitted = func(string) { sd.onAddType() }
	addBtn := widget.NewButton(sd.text(KeyAddType), sd.onAddType)
	addRow := container.NewBorder(nil, nil, nil, addBtn, sd.newTypeEntry)

	restoreBtn := widget.NewButton(sd.text(KeyRestoreDefaults), sd.onRestoreDefaults)
	restoreBtn.Importance = widget.LowImportance

	// Preferences
	sd.dataDirEntry = widget.NewEntry()
	browseBtn := widget.NewButton(sd.text(KeyBrowse), sd.onBrowseDirectory)
	dataDirRow := container.NewBorder(nil, nil, nil, browseBtn, sd.dataDirEntry)

	sd.autoStartCheck = widget.NewCheck(sd.text(KeyAutoStartRelay), nil)
	sd.confirmCheck = widget.NewCheck(sd.text(KeyConfirmDelete), nil)

	languageLabels := sd.settings.GetLanguageOptions()
	sd.languageCodes = make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		sd.languageCodes = append(sd.languageCodes, code)
	}
	sort.Strings(sd.languageCodes)
	sd.languageSelect = widget.NewSelect(sd.languageCodes, nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle(sd.text(KeyTypesSection), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		typesScroll,
		addRow,
		restoreBtn,

		widget.NewSeparator(),
		widget.NewLabelWithStyle(sd.text(KeyPreferences), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),

		widget.NewLabel(sd.text(KeyDataDirectory)+":"),
		dataDirRow,
		sd.autoStartCheck,
		sd.confirmCheck,

		widget.NewLabel(sd.text(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.text(KeySettings),
		sd.text(KeySave),
		sd.text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) createTypeItem() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	check := widget.NewCheck("", nil)
	remove := widget.NewButton(sd.text(KeyRemove), nil)
	remove.Importance = widget.DangerImportance
	return container.NewBorder(nil, nil, check, remove, label)
}

func (sd *SettingsDialog) updateTypeItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(sd.types) {
		return
	}
	t := sd.types[id]

	row := item.(*fyne.Container)
	label := row.Objects[0].(*widget.Label)
	check := row.Objects[1].(*widget.Check)
	remove := row.Objects[2].(*widget.Button)

	enabled := sd.catalog.IsTypeEnabled(t)
	label.SetText(t)
	if enabled {
		label.Importance = widget.MediumImportance
	} else {
		label.Importance = widget.LowImportance
	}
	label.Refresh()

	// Rows are recycled; detach the handler before syncing state
	check.OnChanged = nil
	check.SetChecked(enabled)
	check.OnChanged = func(on bool) { sd.onToggleType(t, on) }

	if sd.catalog.IsDefaultType(t) {
		remove.OnTapped = nil
		remove.Hide()
	} else {
		remove.SetText(sd.text(KeyRemove))
		remove.OnTapped = func() { sd.onRemoveType(t) }
		remove.Show()
	}
}

func (sd *SettingsDialog) reloadTypes() {
	sd.types = sd.catalog.Types()
	sd.typesList.Refresh()
}

func (sd *SettingsDialog) typesChanged() {
	sd.reloadTypes()
	if sd.onTypesChanged != nil {
		sd.onTypesChanged()
	}
}

func (sd *SettingsDialog) onToggleType(t string, enabled bool) {
	if err := sd.catalog.SetTypeEnabled(t, enabled); err != nil {
		dialog.ShowError(err, sd.window)
	}
	sd.typesChanged()
}

func (sd *SettingsDialog) onRemoveType(t string) {
	if err := sd.catalog.RemoveType(t); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	sd.typesChanged()
}

func (sd *SettingsDialog) onAddType() {
	name := strings.TrimSpace(sd.newTypeEntry.Text)
	if _, err := sd.catalog.AddType(name); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	sd.newTypeEntry.SetText("")
	sd.typesChanged()
	sd.typesList.ScrollToBottom()
}

func (sd *SettingsDialog) onRestoreDefaults() {
	dialog.ShowConfirm(sd.text(KeyRestoreDefaults), sd.text(KeyRestoreConfirm), func(ok bool) {
		if !ok {
			return
		}
		if err := sd.catalog.RestoreDefaults(); err != nil {
			dialog.ShowError(err, sd.window)
			return
		}
		sd.typesChanged()
	}, sd.window)
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.dataDirEntry.SetText(sd.settings.GetDataDirectory())
	sd.autoStartCheck.SetChecked(sd.settings.GetAutoStartRelay())
	sd.confirmCheck.SetChecked(sd.settings.GetConfirmDelete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.dataDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the preferences
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	dataDirChanged := false
	dataDir := strings.TrimSpace(sd.dataDirEntry.Text)
	if dataDir != "" && dataDir != sd.settings.GetDataDirectory() {
		sd.settings.SetDataDirectory(dataDir)
		dataDirChanged = true
	}

	sd.settings.SetAutoStartRelay(sd.autoStartCheck.Checked)
	sd.settings.SetConfirmDelete(sd.confirmCheck.Checked)

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	if sd.onSaved != nil {
		sd.onSaved(dataDirChanged)
	}
}
