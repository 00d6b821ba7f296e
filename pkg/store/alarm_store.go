package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
)

const alarmsKey = "alarms"

// ErrNotFound is returned when an alarm ID is unknown.
var ErrNotFound = errors.New("alarm not found")

// AlarmStore owns the ordered alarm list. All mutations persist the full
// list; a failed load falls back to an empty list and is never fatal.
type AlarmStore struct {
	mu     sync.RWMutex
	kv     KeyValue
	logger logging.Logger
	alarms []models.Alarm
}

// NewAlarmStore loads the persisted alarm list from kv.
func NewAlarmStore(kv KeyValue, logger logging.Logger) *AlarmStore {
	as := &AlarmStore{kv: kv, logger: logger}

	if data, ok := kv.Load(alarmsKey); ok {
		if err := json.Unmarshal(data, &as.alarms); err != nil {
			logger.Errorf("store: corrupt alarm list, starting empty: %v", err)
			as.alarms = nil
		}
	}
	return as
}

// List returns a copy of the alarm list in insertion order.
func (as *AlarmStore) List() []models.Alarm {
	as.mu.RLock()
	defer as.mu.RUnlock()
	out := make([]models.Alarm, len(as.alarms))
	copy(out, as.alarms)
	return out
}

// Get returns the alarm with the given ID.
func (as *AlarmStore) Get(id string) (models.Alarm, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	for _, a := range as.alarms {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alarm{}, false
}

// Add validates and appends a new alarm, assigning an ID when absent.
func (as *AlarmStore) Add(a models.Alarm) (models.Alarm, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return models.Alarm{}, err
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	as.alarms = append(as.alarms, a)
	as.persistLocked()
	return a, nil
}

// Update replaces the alarm with the same ID.
func (as *AlarmStore) Update(a models.Alarm) error {
	if err := a.Validate(); err != nil {
		return err
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	for i := range as.alarms {
		if as.alarms[i].ID == a.ID {
			as.alarms[i] = a
			as.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes the alarm with the given ID.
func (as *AlarmStore) Remove(id string) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	for i := range as.alarms {
		if as.alarms[i].ID == id {
			as.alarms = append(as.alarms[:i], as.alarms[i+1:]...)
			as.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

// SetEnabled toggles an alarm. The engine uses this for the one-shot
// auto-disable on dismissal.
func (as *AlarmStore) SetEnabled(id string, enabled bool) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	for i := range as.alarms {
		if as.alarms[i].ID == id {
			as.alarms[i].Enabled = enabled
			as.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

func (as *AlarmStore) persistLocked() {
	data, err := json.Marshal(as.alarms)
	if err != nil {
		as.logger.Errorf("store: failed to encode alarms: %v", err)
		return
	}
	if err := as.kv.Save(alarmsKey, data); err != nil {
		as.logger.Errorf("store: failed to save alarms: %v", err)
	}
}
