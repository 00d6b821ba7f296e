package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
)

const sleepKey = "sleep_entries"

// SleepStore owns the append-only sleep history in insertion order.
// Entries are never mutated or deleted here.
type SleepStore struct {
	mu      sync.RWMutex
	kv      KeyValue
	logger  logging.Logger
	entries []models.SleepEntry
}

// NewSleepStore loads the persisted history from kv.
func NewSleepStore(kv KeyValue, logger logging.Logger) *SleepStore {
	ss := &SleepStore{kv: kv, logger: logger}

	if data, ok := kv.Load(sleepKey); ok {
		if err := json.Unmarshal(data, &ss.entries); err != nil {
			ss.logger.Errorf("store: corrupt sleep history, starting empty: %v", err)
			ss.entries = nil
		}
	}
	return ss
}

// Append records one sleep interval, enforcing bedtime < wakeTime.
func (ss *SleepStore) Append(bedtime, wakeTime time.Time) (models.SleepEntry, error) {
	entry, err := models.NewSleepEntry(bedtime, wakeTime)
	if err != nil {
		return models.SleepEntry{}, err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.entries = append(ss.entries, entry)
	ss.persistLocked()
	return entry, nil
}

// Entries returns a copy of the history in insertion order.
func (ss *SleepStore) Entries() []models.SleepEntry {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	out := make([]models.SleepEntry, len(ss.entries))
	copy(out, ss.entries)
	return out
}

// Len returns the number of recorded entries.
func (ss *SleepStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.entries)
}

func (ss *SleepStore) persistLocked() {
	data, err := json.Marshal(ss.entries)
	if err != nil {
		ss.logger.Errorf("store: failed to encode sleep history: %v", err)
		return
	}
	if err := ss.kv.Save(sleepKey, data); err != nil {
		ss.logger.Errorf("store: failed to save sleep history: %v", err)
	}
}
