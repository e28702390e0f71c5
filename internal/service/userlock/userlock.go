// Package userlock serializes critical sections per user. Operations for
// different users never wait on each other.
package userlock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker acquires an exclusive lock for one user. The returned unlock
// function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, userID uuid.UUID) (unlock func(), err error)
}

// KeyedMutex is an in-process Locker. Entries are reference counted and
// removed once no goroutine holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*entry)}
}

var _ Locker = (*KeyedMutex)(nil)

// Lock blocks until the user's lock is free or ctx is done.
func (k *KeyedMutex) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	e := k.acquireRef(userID)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.releaseRef(userID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.releaseRef(userID, e)
		})
	}, nil
}

// Len reports how many users currently have a lock entry.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *KeyedMutex) acquireRef(userID uuid.UUID) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[userID]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[userID] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) releaseRef(userID uuid.UUID, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, userID)
	}
}
