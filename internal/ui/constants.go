package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconRefresh  = "⟳"
	IconCopy     = "📋"
	IconFolder   = "📁"
	IconClose    = "×"
	IconPlay     = "▶"
	IconStop     = "■"
)

// Text fragments
const (
	DashPlaceholder = "—"
)

// Layout sizing
const (
	TypeColumnWidth float32 = 180
	IDColumnWidth   float32 = 160
	RowMinHeight    float32 = 36

	WindowWidth  float32 = 760
	WindowHeight float32 = 520

	SettingsDialogWidth  float32 = 460
	SettingsDialogHeight float32 = 480
	TypesListHeight      float32 = 260

	IncomingDialogWidth float32 = 380
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 260
	ToastHeight   float32 = 48
	ToastMargin   float32 = 20
	ToastAutoHide         = 2200 * time.Millisecond
)
