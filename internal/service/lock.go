package service

import (
	"context"
	"fmt"
	"sync"
)

// Locker serializes exchanges per user. Lock blocks until the lock is held
// or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// KeyedMutex is an in-process Locker. Entries are dropped once no caller
// holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

// NewKeyedMutex creates an in-process locker
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires the mutex for key
func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e)
		return nil, fmt.Errorf("failed to acquire lock: %w", ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}, nil
}

func (m *KeyedMutex) release(key string, e *keyedEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
}

// Len reports how many keys are currently tracked
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
