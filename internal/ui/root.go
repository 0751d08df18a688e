package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/ytget/credential-mapper/internal/bookmarklet"
	"github.com/ytget/credential-mapper/internal/catalog"
	"github.com/ytget/credential-mapper/internal/config"
	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/logger"
	"github.com/ytget/credential-mapper/internal/model"
	"github.com/ytget/credential-mapper/internal/platform"
)

// RelayController is the part of the relay listener the window drives.
type RelayController interface {
	Start() error
	Stop() error
	Running() bool
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	catalog      catalog.Catalog
	relay        RelayController
	settings     *config.Settings
	localization *Localization
	log          *logger.Logger

	// Mapping form
	typeSelect    *widget.Select
	idEntry       *widget.Entry
	nameEntry     *widget.Entry
	saveBtn       *widget.Button
	cancelEditBtn *widget.Button
	editingType   string

	// Mapping table
	mappingList *widget.List
	emptyLabel  *widget.Label
	rows        []model.MappingRow

	// Relay and toolbar
	statusLabel *widget.Label
	startBtn    *widget.Button
	stopBtn     *widget.Button
	copyBtn     *widget.Button
	refreshBtn  *widget.Button

	// Incoming dialogs currently open, by request
	incoming map[uuid.UUID]*IncomingDialog

	lastToast string
}

// NewRootUI creates and initializes the main UI. Call Load to read the data files.
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, cat catalog.Catalog, rel RelayController, log *logger.Logger) *RootUI {
	if log == nil {
		log = logger.Discard()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		catalog:      cat,
		relay:        rel,
		settings:     settings,
		localization: localization,
		log:          log.With("component", "ui"),
		incoming:     make(map[uuid.UUID]*IncomingDialog),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

func (ui *RootUI) text(key string) string {
	return ui.localization.GetText(key)
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	// Form row
	ui.typeSelect = widget.NewSelect(nil, nil)
	ui.typeSelect.PlaceHolder = ui.text(KeySelectType)

	ui.idEntry = widget.NewEntry()
	ui.idEntry.SetPlaceHolder(ui.text(KeyCredentialID))
	ui.idEntry.OnSubmitted = func(string) { ui.onSubmit() }

	ui.nameEntry = widget.NewEntry()
	ui.nameEntry.SetPlaceHolder(ui.text(KeyCredentialName))
	ui.nameEntry.OnSubmitted = func(string) { ui.onSubmit() }

	ui.saveBtn = widget.NewButton(ui.text(KeySave), ui.onSubmit)
	ui.saveBtn.Importance = widget.HighImportance

	ui.cancelEditBtn = widget.NewButton(ui.text(KeyCancel), ui.resetForm)
	ui.cancelEditBtn.Importance = widget.LowImportance
	ui.cancelEditBtn.Hide()

	fields := container.NewGridWithColumns(3, ui.typeSelect, ui.idEntry, ui.nameEntry)
	formRow := container.NewBorder(nil, nil, nil, container.NewHBox(ui.saveBtn, ui.cancelEditBtn), fields)

	// Toolbar row
	ui.statusLabel = widget.NewLabel(ui.text(KeyServerStopped))
	ui.statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.startBtn = widget.NewButton(IconPlay+" "+ui.text(KeyStartServer), ui.onStartServer)
	ui.stopBtn = widget.NewButton(IconStop+" "+ui.text(KeyStopServer), ui.onStopServer)
	ui.stopBtn.Disable()

	ui.copyBtn = widget.NewButton(IconCopy+" "+ui.text(KeyCopyBookmarklet), ui.onCopyBookmarklet)
	ui.refreshBtn = widget.NewButton(IconRefresh, ui.refreshMappings)
	ui.refreshBtn.Importance = widget.LowImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	toolbar := container.NewBorder(nil, nil,
		container.NewHBox(ui.statusLabel, ui.startBtn, ui.stopBtn),
		container.NewHBox(ui.copyBtn, ui.refreshBtn, settingsBtn),
	)

	// Mapping list
	ui.mappingList = widget.NewList(
		func() int { return len(ui.rows) },
		func() fyne.CanvasObject { return NewMappingRow(ui.localization, ui.onEdit, ui.onDelete) },
		ui.updateMappingItem,
	)
	ui.emptyLabel = widget.NewLabel(ui.text(KeyNoMappings))
	ui.emptyLabel.Alignment = fyne.TextAlignCenter

	top := container.NewVBox(toolbar, widget.NewSeparator(), formRow, widget.NewSeparator())
	content := container.NewBorder(top, nil, nil, nil, container.NewStack(ui.mappingList, ui.emptyLabel))

	ui.window.SetContent(content)
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.text(KeySettings), ui.onShowSettings)
	revealItem := fyne.NewMenuItem(ui.text(KeyRevealDataFolder), ui.onRevealDataFolder)
	quitItem := fyne.NewMenuItem(ui.text(KeyQuit), ui.window.Close)
	quitItem.IsQuit = true

	languageMenu := fyne.NewMenu(ui.text(KeyLanguage))

	available := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		langCode := code
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.text(KeyFile), settingsItem, revealItem, fyne.NewMenuItemSeparator(), quitItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// Subscribe routes bus notifications onto the UI thread.
func (ui *RootUI) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NameIncomingMappingReceived, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ev, ok := e.(events.IncomingMappingReceived)
		if !ok {
			return fmt.Errorf("unexpected event type %T", e)
		}
		fyne.Do(func() { ui.showIncoming(ev.Request) })
		return nil
	}))

	bus.Subscribe(events.NameServerStatusChanged, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ev, ok := e.(events.ServerStatusChanged)
		if !ok {
			return fmt.Errorf("unexpected event type %T", e)
		}
		fyne.Do(func() { ui.setServerStatus(ev.Running) })
		return nil
	}))

	bus.Subscribe(events.NameMappingsChanged, events.HandlerFunc(func(context.Context, events.Event) error {
		fyne.Do(ui.refreshMappings)
		return nil
	}))
}

// Load reads types and mappings and fills the window. Errors are shown, never fatal.
func (ui *RootUI) Load() {
	if err := ui.catalog.Load(); err != nil {
		ui.log.Error("initial load failed", "error", err)
		ui.showError(err)
	}
	ui.updateTypeOptions()
	ui.refreshMappings()
	ui.setServerStatus(ui.relay != nil && ui.relay.Running())
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.text(KeyAppTitle))

	ui.typeSelect.PlaceHolder = ui.text(KeySelectType)
	ui.typeSelect.Refresh()
	ui.idEntry.SetPlaceHolder(ui.text(KeyCredentialID))
	ui.nameEntry.SetPlaceHolder(ui.text(KeyCredentialName))
	ui.saveBtn.SetText(ui.text(KeySave))
	ui.cancelEditBtn.SetText(ui.text(KeyCancel))

	ui.startBtn.SetText(IconPlay + " " + ui.text(KeyStartServer))
	ui.stopBtn.SetText(IconStop + " " + ui.text(KeyStopServer))
	ui.copyBtn.SetText(IconCopy + " " + ui.text(KeyCopyBookmarklet))
	ui.emptyLabel.SetText(ui.text(KeyNoMappings))
	ui.setServerStatus(ui.relay != nil && ui.relay.Running())

	ui.mappingList.Refresh()
}

// updateTypeOptions lists the enabled types in persisted order. A type being
// edited stays selectable even when it is disabled or unknown.
func (ui *RootUI) updateTypeOptions() {
	options := ui.catalog.EnabledTypes()
	if ui.editingType != "" && !containsString(options, ui.editingType) {
		options = append(options, ui.editingType)
	}

	selected := ui.typeSelect.Selected
	ui.typeSelect.Options = options
	if selected != "" && !containsString(options, selected) {
		ui.typeSelect.ClearSelected()
	}
	ui.typeSelect.Refresh()
}

// refreshMappings re-reads the mapping file and redraws the table
func (ui *RootUI) refreshMappings() {
	if _, err := ui.catalog.Mappings(); err != nil {
		ui.log.Error("failed to read mappings", "error", err)
		ui.showError(err)
	}
	ui.rows = ui.catalog.Rows()

	if len(ui.rows) == 0 {
		ui.emptyLabel.Show()
	} else {
		ui.emptyLabel.Hide()
	}
	ui.mappingList.Refresh()
}

func (ui *RootUI) updateMappingItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ui.rows) {
		return
	}
	row, ok := item.(*MappingRow)
	if !ok {
		return
	}
	row.RefreshTexts()
	row.Bind(ui.rows[id])
}

// onSubmit saves the form. Any empty field makes it a no-op.
func (ui *RootUI) onSubmit() {
	t := strings.TrimSpace(ui.typeSelect.Selected)
	id := strings.TrimSpace(ui.idEntry.Text)
	name := strings.TrimSpace(ui.nameEntry.Text)
	if t == "" || id == "" || name == "" {
		return
	}

	if err := ui.catalog.SaveMapping(t, id, name); err != nil {
		ui.log.Error("failed to save mapping", "type", t, "error", err)
		ui.showError(err)
		return
	}

	ui.resetForm()
	ui.refreshMappings()
}

// resetForm clears the inputs and leaves edit mode
func (ui *RootUI) resetForm() {
	ui.editingType = ""
	ui.idEntry.SetText("")
	ui.nameEntry.SetText("")
	ui.typeSelect.ClearSelected()
	ui.cancelEditBtn.Hide()
	ui.updateTypeOptions()
}

// onEdit fills the form with the stored mapping for t
func (ui *RootUI) onEdit(t string) {
	if _, err := ui.catalog.Mappings(); err != nil {
		ui.showError(err)
		return
	}
	m, ok := ui.catalog.Lookup(t)
	if !ok {
		return
	}

	ui.editingType = t
	ui.updateTypeOptions()
	ui.typeSelect.SetSelected(t)
	ui.idEntry.SetText(m.ID)
	ui.nameEntry.SetText(m.Name)
	ui.cancelEditBtn.Show()
}

// onDelete removes the mapping for t, asking first when configured to
func (ui *RootUI) onDelete(t string) {
	if !ui.settings.GetConfirmDelete() {
		ui.deleteMapping(t)
		return
	}
	dialog.ShowConfirm(ui.text(KeyDeleteTitle), ui.localization.Format(KeyDeleteConfirm, t), func(ok bool) {
		if ok {
			ui.deleteMapping(t)
		}
	}, ui.window)
}

func (ui *RootUI) deleteMapping(t string) {
	if err := ui.catalog.DeleteMapping(t); err != nil {
		ui.log.Error("failed to delete mapping", "type", t, "error", err)
		ui.showError(err)
	}
	if ui.editingType == t {
		ui.resetForm()
	}
	ui.refreshMappings()
}

// setServerStatus updates the status label and the start/stop buttons
func (ui *RootUI) setServerStatus(running bool) {
	if running {
		ui.statusLabel.SetText(ui.text(KeyServerRunning))
		ui.startBtn.Disable()
		ui.stopBtn.Enable()
	} else {
		ui.statusLabel.SetText(ui.text(KeyServerStopped))
		ui.startBtn.Enable()
		ui.stopBtn.Disable()
	}
}

func (ui *RootUI) onStartServer() {
	if ui.relay == nil {
		return
	}
	if err := ui.relay.Start(); err != nil {
		ui.log.Error("failed to start relay", "error", err)
		ui.showError(err)
	}
	ui.setServerStatus(ui.relay.Running())
}

// onStopServer stops the relay off the UI thread; shutdown may wait for in-flight requests.
func (ui *RootUI) onStopServer() {
	if ui.relay == nil {
		return
	}
	ui.stopBtn.Disable()
	go func() {
		err := ui.relay.Stop()
		fyne.Do(func() {
			if err != nil {
				ui.log.Error("failed to stop relay", "error", err)
				ui.showError(err)
			}
			ui.setServerStatus(ui.relay.Running())
		})
	}()
}

func (ui *RootUI) onCopyBookmarklet() {
	ui.app.Clipboard().SetContent(bookmarklet.Default())
	ui.showToast(ui.text(KeyBookmarkletCopied))
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	sd := NewSettingsDialog(ui.settings, ui.catalog, ui.localization, ui.window)
	sd.SetCallbacks(ui.updateTypeOptions, ui.onSettingsSaved)
	sd.Show()
}

func (ui *RootUI) onSettingsSaved(dataDirChanged bool) {
	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
	if !dataDirChanged {
		return
	}

	mappingPath, typesPath := ui.catalog.ReloadPaths()
	ui.log.Info("data directory changed", "mappings", mappingPath, "types", typesPath)
	ui.Load()
}

// onRevealDataFolder opens the OS file manager at the mapping file
func (ui *RootUI) onRevealDataFolder() {
	path := ui.catalog.MappingFilePath()
	if err := platform.OpenFileInManager(path); err != nil {
		ui.log.Error("failed to reveal data folder", "path", path, "error", err)
		ui.showError(fmt.Errorf("%s: %w", ui.text(KeyErrorOpeningFolder), err))
	}
}

// showIncoming opens a classification dialog for req. A request that is
// already on screen is not shown twice.
func (ui *RootUI) showIncoming(req model.IncomingRequest) {
	if _, open := ui.incoming[req.RequestID]; open {
		return
	}

	d := NewIncomingDialog(req, ui.catalog.EnabledTypes(), ui.localization, ui.window)
	d.SetCallbacks(ui.onIncomingSave, func(r model.IncomingRequest) {
		delete(ui.incoming, r.RequestID)
	})
	ui.incoming[req.RequestID] = d
	d.Show()
}

func (ui *RootUI) onIncomingSave(req model.IncomingRequest, t string) {
	m := req.ToMapping()
	if err := ui.catalog.SaveMapping(t, m.ID, m.Name); err != nil {
		ui.log.Error("failed to save incoming mapping", "request_id", req.RequestID.String(), "error", err)
		ui.showError(err)
		return
	}
	ui.showToast(ui.text(KeyMappingSaved))
	ui.refreshMappings()
}

func (ui *RootUI) showError(err error) {
	dialog.ShowError(err, ui.window)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
