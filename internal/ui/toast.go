package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// showToast shows a short non-modal message in the top-right corner of the
// window and hides it after ToastAutoHide.
func (ui *RootUI) showToast(message string) {
	label := widget.NewLabel(message)
	label.Truncation = fyne.TextTruncateEllipsis

	var popup *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() {
		if popup != nil {
			popup.Hide()
		}
	})
	closeBtn.Importance = widget.LowImportance

	content := container.NewBorder(nil, nil, nil, closeBtn, label)
	popup = widget.NewPopUp(content, ui.window.Canvas())

	canvasSize := ui.window.Canvas().Size()
	size := fyne.NewSize(ToastWidth, ToastHeight)
	popup.Resize(size)
	popup.Move(fyne.NewPos(canvasSize.Width-size.Width-ToastMargin, ToastMargin))
	popup.Show()

	ui.lastToast = message
	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(popup.Hide)
	})
}
