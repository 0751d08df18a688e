package ui

import (
	"fmt"
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyFile               = "file"
	KeySettings           = "settings"
	KeyLanguage           = "language"
	KeyQuit               = "quit"
	KeyRevealDataFolder   = "reveal_data_folder"
	KeyType               = "type"
	KeyCredentialID       = "credential_id"
	KeyCredentialName     = "credential_name"
	KeySelectType         = "select_type"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyEdit               = "edit"
	KeyDelete             = "delete"
	KeyNoMappings         = "no_mappings"
	KeyDeleteTitle        = "delete_title"
	KeyDeleteConfirm      = "delete_confirm"
	KeyServerRunning      = "server_running"
	KeyServerStopped      = "server_stopped"
	KeyStartServer        = "start_server"
	KeyStopServer         = "stop_server"
	KeyCopyBookmarklet    = "copy_bookmarklet"
	KeyBookmarkletCopied  = "bookmarklet_copied"
	KeyRefresh            = "refresh"
	KeyMappingSaved       = "mapping_saved"
	KeyTypesSection       = "types_section"
	KeyRemove             = "remove"
	KeyAddType            = "add_type"
	KeyNewTypePlaceholder = "new_type_placeholder"
	KeyRestoreDefaults    = "restore_defaults"
	KeyRestoreConfirm     = "restore_confirm"
	KeyIncomingTitle      = "incoming_title"
	KeyNoEnabledTypes     = "no_enabled_types"
	KeyPreferences        = "preferences"
	KeyDataDirectory      = "data_directory"
	KeyBrowse             = "browse"
	KeyAutoStartRelay     = "auto_start_relay"
	KeyConfirmDelete      = "confirm_delete"
	KeyClose              = "close"
	KeyError              = "error"
	KeyErrorOpeningFolder = "error_opening_folder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the language from
// LANG when it is one we ship, English otherwise.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if len(v) >= 2 {
			return strings.ToLower(v[:2])
		}
	}
	return "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns the localized text for key with args substituted.
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Credential Mapper",
		KeyFile:               "File",
		KeySettings:           "Settings",
		KeyLanguage:           "Language",
		KeyQuit:               "Quit",
		KeyRevealDataFolder:   "Reveal data folder",
		KeyType:               "Type",
		KeyCredentialID:       "Credential ID",
		KeyCredentialName:     "Credential name",
		KeySelectType:         "Select type",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyEdit:               "Edit",
		KeyDelete:             "Delete",
		KeyNoMappings:         "No mappings found.",
		KeyDeleteTitle:        "Delete mapping",
		KeyDeleteConfirm:      "Delete mapping for type \"%s\"?",
		KeyServerRunning:      "Server: Running",
		KeyServerStopped:      "Server: Stopped",
		KeyStartServer:        "Start server",
		KeyStopServer:         "Stop server",
		KeyCopyBookmarklet:    "Copy bookmarklet",
		KeyBookmarkletCopied:  "Bookmarklet script copied!",
		KeyRefresh:            "Refresh",
		KeyMappingSaved:       "Mapping saved!",
		KeyTypesSection:       "Credential types",
		KeyRemove:             "Remove",
		KeyAddType:            "Add type",
		KeyNewTypePlaceholder: "New type name",
		KeyRestoreDefaults:    "Restore defaults",
		KeyRestoreConfirm:     "Replace the type list with the defaults? Custom types will be removed.",
		KeyIncomingTitle:      "Select Credential Type",
		KeyNoEnabledTypes:     "No enabled types. Enable a type in Settings first.",
		KeyPreferences:        "Preferences",
		KeyDataDirectory:      "Data directory",
		KeyBrowse:             "Browse",
		KeyAutoStartRelay:     "Start server on launch",
		KeyConfirmDelete:      "Confirm before deleting",
		KeyClose:              "Close",
		KeyError:              "Error",
		KeyErrorOpeningFolder: "Error opening folder",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Credential Mapper",
		KeyFile:               "Файл",
		KeySettings:           "Настройки",
		KeyLanguage:           "Язык",
		KeyQuit:               "Выход",
		KeyRevealDataFolder:   "Открыть папку данных",
		KeyType:               "Тип",
		KeyCredentialID:       "ID учётных данных",
		KeyCredentialName:     "Название",
		KeySelectType:         "Выберите тип",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyEdit:               "Изменить",
		KeyDelete:             "Удалить",
		KeyNoMappings:         "Сопоставления не найдены.",
		KeyDeleteTitle:        "Удаление",
		KeyDeleteConfirm:      "Удалить сопоставление для типа \"%s\"?",
		KeyServerRunning:      "Сервер: запущен",
		KeyServerStopped:      "Сервер: остановлен",
		KeyStartServer:        "Запустить сервер",
		KeyStopServer:         "Остановить сервер",
		KeyCopyBookmarklet:    "Копировать букмарклет",
		KeyBookmarkletCopied:  "Скрипт букмарклета скопирован!",
		KeyRefresh:            "Обновить",
		KeyMappingSaved:       "Сопоставление сохранено!",
		KeyTypesSection:       "Типы учётных данных",
		KeyRemove:             "Удалить",
		KeyAddType:            "Добавить тип",
		KeyNewTypePlaceholder: "Название нового типа",
		KeyRestoreDefaults:    "Восстановить по умолчанию",
		KeyRestoreConfirm:     "Заменить список типов стандартным? Пользовательские типы будут удалены.",
		KeyIncomingTitle:      "Выберите тип учётных данных",
		KeyNoEnabledTypes:     "Нет включённых типов. Включите тип в настройках.",
		KeyPreferences:        "Параметры",
		KeyDataDirectory:      "Папка данных",
		KeyBrowse:             "Обзор",
		KeyAutoStartRelay:     "Запускать сервер при старте",
		KeyConfirmDelete:      "Подтверждать удаление",
		KeyClose:              "Закрыть",
		KeyError:              "Ошибка",
		KeyErrorOpeningFolder: "Ошибка открытия папки",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Credential Mapper",
		KeyFile:               "Arquivo",
		KeySettings:           "Configurações",
		KeyLanguage:           "Idioma",
		KeyQuit:               "Sair",
		KeyRevealDataFolder:   "Mostrar pasta de dados",
		KeyType:               "Tipo",
		KeyCredentialID:       "ID da credencial",
		KeyCredentialName:     "Nome da credencial",
		KeySelectType:         "Selecione o tipo",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyEdit:               "Editar",
		KeyDelete:             "Excluir",
		KeyNoMappings:         "Nenhum mapeamento encontrado.",
		KeyDeleteTitle:        "Excluir mapeamento",
		KeyDeleteConfirm:      "Excluir mapeamento do tipo \"%s\"?",
		KeyServerRunning:      "Servidor: em execução",
		KeyServerStopped:      "Servidor: parado",
		KeyStartServer:        "Iniciar servidor",
		KeyStopServer:         "Parar servidor",
		KeyCopyBookmarklet:    "Copiar bookmarklet",
		KeyBookmarkletCopied:  "Script do bookmarklet copiado!",
		KeyRefresh:            "Atualizar",
		KeyMappingSaved:       "Mapeamento salvo!",
		KeyTypesSection:       "Tipos de credencial",
		KeyRemove:             "Remover",
		KeyAddType:            "Adicionar tipo",
		KeyNewTypePlaceholder: "Nome do novo tipo",
		KeyRestoreDefaults:    "Restaurar padrões",
		KeyRestoreConfirm:     "Substituir a lista de tipos pelos padrões? Tipos personalizados serão removidos.",
		KeyIncomingTitle:      "Selecione o tipo de credencial",
		KeyNoEnabledTypes:     "Nenhum tipo habilitado. Habilite um tipo nas Configurações.",
		KeyPreferences:        "Preferências",
		KeyDataDirectory:      "Pasta de dados",
		KeyBrowse:             "Navegar",
		KeyAutoStartRelay:     "Iniciar servidor ao abrir",
		KeyConfirmDelete:      "Confirmar antes de excluir",
		KeyClose:              "Fechar",
		KeyError:              "Erro",
		KeyErrorOpeningFolder: "Erro ao abrir pasta",
	}
}
