package config

import (
	"sync"

	"movedyet/internal/core/model"
)

// Store is the live, thread-safe settings holder. It satisfies
// model.ConfigProvider.
type Store struct {
	mu        sync.RWMutex
	settings  Settings
	listeners []func(Settings)
}

// NewStore creates a Store holding the normalized settings.
func NewStore(settings Settings) *Store {
	return &Store{settings: settings.Normalize()}
}

// Settings returns the current settings.
func (store *Store) Settings() Settings {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.settings
}

// Config returns the current engine configuration.
func (store *Store) Config() model.Config {
	return store.Settings().EngineConfig()
}

// OnChange registers fn to run after every Update.
func (store *Store) OnChange(fn func(Settings)) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.listeners = append(store.listeners, fn)
}

// Update replaces the settings and notifies listeners. It returns the value
// that was stored after normalization.
func (store *Store) Update(settings Settings) Settings {
	settings = settings.Normalize()

	store.mu.Lock()
	store.settings = settings
	listeners := append(([]func(Settings))(nil), store.listeners...)
	store.mu.Unlock()

	for _, listener := range listeners {
		listener(settings)
	}
	return settings
}
