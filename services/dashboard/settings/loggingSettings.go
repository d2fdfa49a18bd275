package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("settings")

// ProvidedConfigurationMessage is shown next to the settings that can not be changed from the console
const ProvidedConfigurationMessage = "Configuration provided by the system"

const savedMessage = "API logging saved"

// Setting keys
const (
	KeyMaxDurationMillis = "logging.maxDurationMillis"
	KeyAuditEnabled      = "logging.audit.enabled"
	KeyAuditTrailEnabled = "logging.audit.trail.enabled"
	KeyUserDisplayed     = "logging.user.displayed"
)

// ErrReadonlySetting signals an attempt to change a setting provided by the system
var ErrReadonlySetting = errors.New("readonly setting")

var errNilPortalConfigSaver = errors.New("nil portal config saver")
var errNilNotifier = errors.New("nil notifier")

// LoggingSettings holds the API logging settings of the environment
type LoggingSettings struct {
	MaxDurationMillis int64 `json:"maxDurationMillis"`
	AuditEnabled      bool  `json:"auditEnabled"`
	AuditTrailEnabled bool  `json:"auditTrailEnabled"`
	UserDisplayed     bool  `json:"userDisplayed"`
}

type portalConfigPayload struct {
	Logging struct {
		MaxDurationMillis int64 `json:"maxDurationMillis"`
		Audit             struct {
			Enabled bool `json:"enabled"`
			Trail   struct {
				Enabled bool `json:"enabled"`
			} `json:"trail"`
		} `json:"audit"`
		User struct {
			Displayed bool `json:"displayed"`
		} `json:"user"`
	} `json:"logging"`
}

// PortalConfigSaver defines the interface for persisting the portal settings
type PortalConfigSaver interface {
	SavePortalConfig(ctx context.Context, payload interface{}) error
	IsInterfaceNil() bool
}

// Notifier defines the interface for the user notifications
type Notifier interface {
	Show(message string)
	ShowError(message string)
	IsInterfaceNil() bool
}

type loggingSettingsHandler struct {
	saver    PortalConfigSaver
	notifier Notifier
	readonly map[string]struct{}

	mut     sync.RWMutex
	current LoggingSettings
}

// NewLoggingSettingsHandler creates the handler of the API logging settings
func NewLoggingSettingsHandler(saver PortalConfigSaver, notifier Notifier, readonlySettings []string, initial LoggingSettings) (*loggingSettingsHandler, error) {
	if check.IfNil(saver) {
		return nil, errNilPortalConfigSaver
	}
	if check.IfNil(notifier) {
		return nil, errNilNotifier
	}

	readonly := make(map[string]struct{}, len(readonlySettings))
	for _, key := range readonlySettings {
		readonly[key] = struct{}{}
	}

	return &loggingSettingsHandler{
		saver:    saver,
		notifier: notifier,
		readonly: readonly,
		current:  initial,
	}, nil
}

// IsReadonly returns true if the setting is provided by the system
func (handler *loggingSettingsHandler) IsReadonly(property string) bool {
	_, found := handler.readonly[property]
	return found
}

// ReadonlySettings returns the keys of the settings provided by the system
func (handler *loggingSettingsHandler) ReadonlySettings() []string {
	keys := make([]string, 0, len(handler.readonly))
	for _, key := range []string{KeyMaxDurationMillis, KeyAuditEnabled, KeyAuditTrailEnabled, KeyUserDisplayed} {
		if handler.IsReadonly(key) {
			keys = append(keys, key)
		}
	}

	return keys
}

// Get returns the current settings
func (handler *loggingSettingsHandler) Get() LoggingSettings {
	handler.mut.RLock()
	defer handler.mut.RUnlock()

	return handler.current
}

// Save persists the new settings and notifies the user
func (handler *loggingSettingsHandler) Save(ctx context.Context, newSettings LoggingSettings) error {
	handler.mut.Lock()
	defer handler.mut.Unlock()

	for _, key := range changedKeys(handler.current, newSettings) {
		if handler.IsReadonly(key) {
			return fmt.Errorf("%w: %s", ErrReadonlySetting, key)
		}
	}

	err := handler.saver.SavePortalConfig(ctx, toPayload(newSettings))
	if err != nil {
		handler.notifier.ShowError(fmt.Sprintf("Failed to save the API logging settings: %s", err.Error()))
		return err
	}

	handler.current = newSettings
	handler.notifier.Show(savedMessage)
	log.Debug("API logging settings saved", "max duration millis", newSettings.MaxDurationMillis,
		"audit", newSettings.AuditEnabled, "audit trail", newSettings.AuditTrailEnabled, "user displayed", newSettings.UserDisplayed)

	return nil
}

func changedKeys(old LoggingSettings, updated LoggingSettings) []string {
	keys := make([]string, 0)
	if old.MaxDurationMillis != updated.MaxDurationMillis {
		keys = append(keys, KeyMaxDurationMillis)
	}
	if old.AuditEnabled != updated.AuditEnabled {
		keys = append(keys, KeyAuditEnabled)
	}
	if old.AuditTrailEnabled != updated.AuditTrailEnabled {
		keys = append(keys, KeyAuditTrailEnabled)
	}
	if old.UserDisplayed != updated.UserDisplayed {
		keys = append(keys, KeyUserDisplayed)
	}

	return keys
}

func toPayload(settings LoggingSettings) portalConfigPayload {
	payload := portalConfigPayload{}
	payload.Logging.MaxDurationMillis = settings.MaxDurationMillis
	payload.Logging.Audit.Enabled = settings.AuditEnabled
	payload.Logging.Audit.Trail.Enabled = settings.AuditTrailEnabled
	payload.Logging.User.Displayed = settings.UserDisplayed

	return payload
}

// IsInterfaceNil returns true if the value under the interface is nil
func (handler *loggingSettingsHandler) IsInterfaceNil() bool {
	return handler == nil
}
