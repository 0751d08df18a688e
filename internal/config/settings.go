package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/joho/godotenv"

	"github.com/ytget/credential-mapper/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDataDir        = "data_directory"
	KeyLanguage       = "app_language"
	KeyAutoStartRelay = "auto_start_relay"
	KeyConfirmDelete  = "confirm_delete"
)

// Environment overrides, read from the process environment or a .env file.
const (
	EnvFile           = ".env"
	EnvAppEnv         = "CREDMAP_ENV"
	EnvDataDir        = "CREDMAP_DATA_DIR"
	EnvAutoStartRelay = "CREDMAP_AUTOSTART_RELAY"
)

// Default values
const (
	DefaultEnv            = "production"
	DefaultLanguage       = "system"
	DefaultAutoStartRelay = false
	DefaultConfirmDelete  = true
)

// LoadEnv loads variables from .env files into the process environment.
// Variables that are already set are not overridden. Missing files are ignored;
// a file that exists but cannot be read or parsed is reported.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{EnvFile}
	}
	var errs []error
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetEnv returns the runtime environment ("development" or "production").
func (s *Settings) GetEnv() string {
	if env := strings.TrimSpace(os.Getenv(EnvAppEnv)); env != "" {
		return env
	}
	return DefaultEnv
}

// GetDataDirectory returns the directory the data files live in.
// The environment wins over the saved preference; with neither set the
// directory is derived from where the application runs.
func (s *Settings) GetDataDirectory() string {
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		return platform.ResolveBaseDir(dir)
	}
	return platform.ResolveBaseDir(s.app.Preferences().String(KeyDataDir))
}

// SetDataDirectory saves a data directory override. Empty clears it.
func (s *Settings) SetDataDirectory(dir string) {
	s.app.Preferences().SetString(KeyDataDir, strings.TrimSpace(dir))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoStartRelay returns whether the relay listener starts with the app.
func (s *Settings) GetAutoStartRelay() bool {
	if raw := strings.TrimSpace(os.Getenv(EnvAutoStartRelay)); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return s.app.Preferences().BoolWithFallback(KeyAutoStartRelay, DefaultAutoStartRelay)
}

// SetAutoStartRelay sets whether the relay listener starts with the app.
func (s *Settings) SetAutoStartRelay(autoStart bool) {
	s.app.Preferences().SetBool(KeyAutoStartRelay, autoStart)
}

// GetConfirmDelete returns whether deleting a mapping asks for confirmation.
func (s *Settings) GetConfirmDelete() bool {
	return s.app.Preferences().BoolWithFallback(KeyConfirmDelete, DefaultConfirmDelete)
}

// SetConfirmDelete sets whether deleting a mapping asks for confirmation.
func (s *Settings) SetConfirmDelete(confirm bool) {
	s.app.Preferences().SetBool(KeyConfirmDelete, confirm)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
