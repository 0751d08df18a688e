package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/credential-mapper/internal/model"
)

// MappingRow is one line of the mapping table: type, id, name and the
// Edit / Delete actions. Rows are recycled by widget.List, so the row
// always acts on whatever mapping it was last bound to.
type MappingRow struct {
	widget.BaseWidget

	row          model.MappingRow
	localization *Localization

	typeLabel *widget.Label
	idLabel   *widget.Label
	nameLabel *widget.Label
	editBtn   *widget.Button
	deleteBtn *widget.Button

	onEdit   func(t string)
	onDelete func(t string)
}

// NewMappingRow creates an empty row; call Bind to fill it.
func NewMappingRow(localization *Localization, onEdit, onDelete func(t string)) *MappingRow {
	r := &MappingRow{
		localization: localization,
		onEdit:       onEdit,
		onDelete:     onDelete,
	}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

func (r *MappingRow) createUI() {
	r.typeLabel = widget.NewLabel("")
	r.typeLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.typeLabel.Truncation = fyne.TextTruncateEllipsis

	r.idLabel = widget.NewLabel("")
	r.idLabel.TextStyle = fyne.TextStyle{Monospace: true}
	r.idLabel.Truncation = fyne.TextTruncateEllipsis

	r.nameLabel = widget.NewLabel("")
	r.nameLabel.Truncation = fyne.TextTruncateEllipsis

	r.editBtn = widget.NewButton(r.localization.GetText(KeyEdit), func() {
		if r.onEdit != nil && r.row.Type != "" {
			r.onEdit(r.row.Type)
		}
	})
	r.editBtn.Importance = widget.MediumImportance

	r.deleteBtn = widget.NewButton(r.localization.GetText(KeyDelete), func() {
		if r.onDelete != nil && r.row.Type != "" {
			r.onDelete(r.row.Type)
		}
	})
	r.deleteBtn.Importance = widget.DangerImportance
}

// Bind shows row in this widget.
func (r *MappingRow) Bind(row model.MappingRow) {
	r.row = row
	r.typeLabel.SetText(orDash(row.Type))
	r.idLabel.SetText(orDash(row.ID))
	r.nameLabel.SetText(orDash(row.Name))
}

// RefreshTexts re-reads button labels after a language change.
func (r *MappingRow) RefreshTexts() {
	r.editBtn.SetText(r.localization.GetText(KeyEdit))
	r.deleteBtn.SetText(r.localization.GetText(KeyDelete))
}

// CreateRenderer lays the row out as fixed type/id columns, a stretching
// name column and the action buttons on the right.
func (r *MappingRow) CreateRenderer() fyne.WidgetRenderer {
	columns := container.New(layout.NewGridWrapLayout(fyne.NewSize(TypeColumnWidth, RowMinHeight)), r.typeLabel)
	idColumn := container.New(layout.NewGridWrapLayout(fyne.NewSize(IDColumnWidth, RowMinHeight)), r.idLabel)
	actions := container.NewHBox(r.editBtn, r.deleteBtn)

	content := container.NewBorder(nil, nil, container.NewHBox(columns, idColumn), actions, r.nameLabel)
	return widget.NewSimpleRenderer(content)
}

func orDash(s string) string {
	if s == "" {
		return DashPlaceholder
	}
	return s
}
