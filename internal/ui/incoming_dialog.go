package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/credential-mapper/internal/model"
)

// IncomingDialog asks the user which type a credential pushed by the relay
// belongs to. Save stores the mapping and is disabled when no type is enabled.
// Cancel discards the request.
type IncomingDialog struct {
	request      model.IncomingRequest
	localization *Localization
	window       fyne.Window
	dialog       *dialog.CustomDialog
	typeSelect   *widget.Select
	saveBtn      *widget.Button

	onSave   func(req model.IncomingRequest, t string)
	onClosed func(req model.IncomingRequest)
}

// NewIncomingDialog builds the dialog for req offering enabledTypes.
func NewIncomingDialog(req model.IncomingRequest, enabledTypes []string, localization *Localization, window fyne.Window) *IncomingDialog {
	d := &IncomingDialog{
		request:      req,
		localization: localization,
		window:       window,
	}
	d.createUI(enabledTypes)
	return d
}

// SetCallbacks sets the save and close handlers. onClosed runs for both buttons.
func (d *IncomingDialog) SetCallbacks(onSave func(req model.IncomingRequest, t string), onClosed func(req model.IncomingRequest)) {
	d.onSave = onSave
	d.onClosed = onClosed
}

func (d *IncomingDialog) createUI(enabledTypes []string) {
	d.typeSelect = widget.NewSelect(enabledTypes, nil)
	d.typeSelect.PlaceHolder = d.localization.GetText(KeySelectType)
	if len(enabledTypes) > 0 {
		d.typeSelect.SetSelected(enabledTypes[0])
	}

	idValue := widget.NewLabelWithStyle(d.request.ID, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	idValue.Truncation = fyne.TextTruncateEllipsis
	nameValue := widget.NewLabelWithStyle(d.request.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	nameValue.Truncation = fyne.TextTruncateEllipsis

	details := container.New(
		layout.NewFormLayout(),
		widget.NewLabel(d.localization.GetText(KeyCredentialID)+":"), idValue,
		widget.NewLabel(d.localization.GetText(KeyCredentialName)+":"), nameValue,
	)

	content := container.NewVBox(details, d.typeSelect)
	if len(enabledTypes) == 0 {
		hint := widget.NewLabel(d.localization.GetText(KeyNoEnabledTypes))
		hint.Wrapping = fyne.TextWrapWord
		content.Add(hint)
	}

	d.saveBtn = widget.NewButton(d.localization.GetText(KeySave), func() { d.onConfirm(true) })
	d.saveBtn.Importance = widget.HighImportance
	if len(enabledTypes) == 0 {
		d.saveBtn.Disable()
	}
	cancelBtn := widget.NewButton(d.localization.GetText(KeyCancel), func() { d.onConfirm(false) })

	d.dialog = dialog.NewCustomWithoutButtons(d.localization.GetText(KeyIncomingTitle), content, d.window)
	d.dialog.SetButtons([]fyne.CanvasObject{cancelBtn, d.saveBtn})
	d.dialog.Resize(fyne.NewSize(IncomingDialogWidth, d.dialog.MinSize().Height))
}

// Show displays the dialog.
func (d *IncomingDialog) Show() {
	d.dialog.Show()
}

// Selected returns the currently chosen type.
func (d *IncomingDialog) Selected() string {
	return d.typeSelect.Selected
}

// onConfirm closes the dialog unless Save was pressed without a type.
func (d *IncomingDialog) onConfirm(save bool) {
	if save && d.typeSelect.Selected == "" {
		return
	}
	d.dialog.Hide()
	if save && d.onSave != nil {
		d.onSave(d.request, d.typeSelect.Selected)
	}
	if d.onClosed != nil {
		d.onClosed(d.request)
	}
}
