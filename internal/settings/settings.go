package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Settings holds persistent user state
type Settings struct {
	LastMethod string   `json:"last_method,omitempty"`
	LastPasses int      `json:"last_passes,omitempty"`
	RecentDirs []string `json:"recent_dirs,omitempty"`
}

// Manager handles loading and saving settings
type Manager struct {
	path         string
	settings     Settings
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
	maxRecent    int
}

// NewManager creates a new settings manager
func NewManager(maxRecent int) *Manager {
	if maxRecent < 1 {
		maxRecent = 10
	}
	return &Manager{
		path:         defaultPath(),
		saveDuration: 2 * time.Second, // Debounce saves
		maxRecent:    maxRecent,
	}
}

// defaultPath returns the default settings file path
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shredspace-settings.json"
	}
	return filepath.Join(home, ".shredspace", "settings.json")
}

// SetPath overrides the settings file location
func (m *Manager) SetPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
}

// Load loads settings from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No settings file yet, start fresh
			m.settings = Settings{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.settings)
}

// Save saves settings to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves settings without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// LastMethod returns the last-used erase method name
func (m *Manager) LastMethod() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.LastMethod
}

// LastPasses returns the last-used pass count
func (m *Manager) LastPasses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.LastPasses
}

// RecentDirs returns the recently scanned directories, newest first
func (m *Manager) RecentDirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dirs := make([]string, len(m.settings.RecentDirs))
	copy(dirs, m.settings.RecentDirs)
	return dirs
}

// SetLastErase records the method and pass count of the latest erase
func (m *Manager) SetLastErase(method string, passes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings.LastMethod == method && m.settings.LastPasses == passes {
		return
	}
	m.settings.LastMethod = method
	m.settings.LastPasses = passes
	m.scheduleSaveLocked()
}

// AddRecentDir moves dir to the front of the recent list
func (m *Manager) AddRecentDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := make([]string, 0, m.maxRecent)
	recent = append(recent, dir)
	for _, d := range m.settings.RecentDirs {
		if d == dir {
			continue
		}
		recent = append(recent, d)
		if len(recent) == m.maxRecent {
			break
		}
	}
	m.settings.RecentDirs = recent
	m.scheduleSaveLocked()
}

// scheduleSaveLocked schedules a debounced save (caller must hold lock)
func (m *Manager) scheduleSaveLocked() {
	m.dirty = true

	// Cancel any pending save timer
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	// Schedule a debounced save
	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked()
		}
	})
}

// Close flushes any pending save
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
