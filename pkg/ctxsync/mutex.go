package ctxsync

import (
	"context"
)

// NewMutex creates a new instance of Mutex. The returned mutex starts
// unlocked: its token channel is created with room for exactly one token,
// and that token is deposited immediately.
func NewMutex() *Mutex {
	token := make(chan struct{}, 1)
	token <- struct{}{}
	return &Mutex{token: token}
}

// A Mutex is a mutual exclusion lock, implemented as a single-token
// channel: holding the lock means having taken the token out of the
// channel, and Unlock puts it back.
type Mutex struct {
	token chan struct{}
}

// Lock locks the mutex with a context.Background()
func (m *Mutex) Lock() {
	_ = m.LockWithContext(context.Background())
}

// LockWithContext locks until Unlock is called or context is cancelled
func (m *Mutex) LockWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.token:
		return nil
	}
}

// TryLock tries to lock m and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	select {
	case <-m.token:
		return true
	default:
		return false
	}
}

// Unlock unlocks m.
func (m *Mutex) Unlock() {
	select {
	case m.token <- struct{}{}:
	default:
		panic("ctxsync: unlock of unlocked mutex")
	}
}
