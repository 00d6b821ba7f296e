package store

import (
	"encoding/json"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
)

const settingsKey = "settings"

// SettingsStore handles settings persistence over the KeyValue boundary.
type SettingsStore struct {
	kv     KeyValue
	logger logging.Logger
}

// NewSettingsStore creates a new SettingsStore instance
func NewSettingsStore(kv KeyValue, logger logging.Logger) *SettingsStore {
	return &SettingsStore{kv: kv, logger: logger}
}

// Load returns persisted settings, falling back to defaults when nothing
// was saved or the payload is unreadable.
func (st *SettingsStore) Load() models.Settings {
	settings := models.DefaultSettings()

	data, ok := st.kv.Load(settingsKey)
	if !ok {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		st.logger.Errorf("store: corrupt settings, using defaults: %v", err)
		return models.DefaultSettings()
	}
	return settings
}

// Save persists settings after validating field ranges.
func (st *SettingsStore) Save(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return st.kv.Save(settingsKey, data)
}
