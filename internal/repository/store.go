package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/domain"
)

// Store bundles the repositories served by one backing database
type Store struct {
	Users    domain.UserRepository
	Messages domain.MessageRepository
	Progress domain.ProgressRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// NewStore assembles a Store. ping and close may be nil.
func NewStore(
	users domain.UserRepository,
	messages domain.MessageRepository,
	progress domain.ProgressRepository,
	ping func(ctx context.Context) error,
	close func(ctx context.Context) error,
) *Store {
	return &Store{
		Users:    users,
		Messages: messages,
		Progress: progress,
		ping:     ping,
		close:    close,
	}
}

// Ping verifies connectivity to the backing database
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the underlying connections
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Factory opens a Store for a database configuration
type Factory func(ctx context.Context, cfg config.DatabaseConfig) (*Store, error)

// Registry maps driver names to store factories
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty driver registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a store factory for a driver name
func (r *Registry) Register(driver string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[driver] = factory
}

// SupportedDrivers returns registered driver names in sorted order
func (r *Registry) SupportedDrivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]string, 0, len(r.factories))
	for name := range r.factories {
		drivers = append(drivers, name)
	}
	sort.Strings(drivers)
	return drivers
}

// Open creates the store for cfg.Driver
func (r *Registry) Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Driver]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}
