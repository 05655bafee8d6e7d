package config

import (
	"context"
	"fmt"
	"sync"
)

type ContextKey string

const ManagerCtxKey ContextKey = "config_manager"

// Manager keeps the loaded configuration together with the service that
// resolved it, so callers can ask where a value came from.
type Manager struct {
	Service Service
	mu      sync.RWMutex
	current *Config
}

// NewManager creates a new configuration manager.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	cfg, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()
	return cfg, nil
}

// Get returns the last loaded configuration, or the defaults before any load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Default()
	}
	return m.current
}

func (m *Manager) SourceOf(key string) SourceType {
	return m.Service.GetSource(key)
}

func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ManagerCtxKey, m)
}

func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, ok := ctx.Value(ManagerCtxKey).(*Manager); ok && m != nil {
			return m
		}
	}
	return nil
}

// FromContext returns the active configuration, falling back to defaults.
func FromContext(ctx context.Context) *Config {
	if m := ManagerFromContext(ctx); m != nil {
		return m.Get()
	}
	return Default()
}
