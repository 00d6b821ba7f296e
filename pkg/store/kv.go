package store

import (
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
)

// KeyValue is the persistence capability the stores are built on. The only
// contract is that Save followed by Load round-trips losslessly; the
// backing encoding is not the engine's concern.
type KeyValue interface {
	Load(key string) ([]byte, bool)
	Save(key string, data []byte) error
}

// PrefsKV stores values as strings in Fyne application preferences.
type PrefsKV struct {
	prefs fyne.Preferences
}

// NewPrefsKV wraps the given preferences as a KeyValue backend.
func NewPrefsKV(prefs fyne.Preferences) *PrefsKV {
	return &PrefsKV{prefs: prefs}
}

func (p *PrefsKV) Load(key string) ([]byte, bool) {
	s := p.prefs.String(key)
	if s == "" {
		return nil, false
	}
	return []byte(s), true
}

func (p *PrefsKV) Save(key string, data []byte) error {
	p.prefs.SetString(key, string(data))
	return nil
}

// FileKV stores each key as a JSON file under a directory.
type FileKV struct {
	dir string
}

// NewFileKV creates the directory if needed and returns a file-backed
// KeyValue.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *FileKV) Save(key string, data []byte) error {
	return os.WriteFile(f.path(key), data, 0o644)
}

// MemKV is an in-memory KeyValue for tests.
type MemKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string][]byte)}
}

func (m *MemKV) Load(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.m[key]
	return data, ok
}

func (m *MemKV) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = append([]byte(nil), data...)
	return nil
}
