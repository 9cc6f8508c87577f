// Package executor contains the serialization primitive used by the
// datastore. It guarantees at most one
// core operation runs at a time, drains waiters strictly in submission
// order, and buffers submissions made before [Executor.DrainBuffer] is
// called.
package executor

import (
	"context"
	"sync/atomic"
)

// ticket represents one caller's place in the FIFO queue. grant is closed
// by the dispatcher goroutine when the ticket reaches the head of the
// queue and the executor is free to hand it the lock.
type ticket struct {
	grant      chan struct{}
	loadBypass bool
}

type cancelRequest struct {
	t   *ticket
	ack chan bool // true: removed before grant; false: already granted, caller keeps it
}

// Executor serializes datastore operations on a FIFO queue, drained by a
// single dispatcher goroutine so submission order is the grant order.
// Before the buffer is drained, LockWithContext callers wait behind the
// buffer gate; LockForLoad bypasses it, for the one operation
// (LoadDatabase) allowed to run before load completes.
type Executor struct {
	reqCh     chan *ticket
	cancelCh  chan cancelRequest
	releaseCh chan struct{}
	drainCh   chan struct{}

	buffering atomic.Bool
}

// NewExecutor returns a new Executor, starting in buffering mode, and
// starts its dispatcher goroutine.
func NewExecutor() *Executor {
	e := &Executor{
		reqCh:     make(chan *ticket),
		cancelCh:  make(chan cancelRequest),
		releaseCh: make(chan struct{}),
		drainCh:   make(chan struct{}),
	}
	e.buffering.Store(true)
	go e.dispatch()
	return e
}

// dispatch is the single goroutine that owns the FIFO queue and the
// single-writer lock state. It is the only place that mutates queue or
// holding, so grant order is exactly submission (reqCh receive) order.
func (e *Executor) dispatch() {
	var queue []*ticket
	holding := false

	tryGrant := func() {
		if holding || len(queue) == 0 {
			return
		}
		head := queue[0]
		if head.loadBypass || !e.buffering.Load() {
			queue = queue[1:]
			holding = true
			close(head.grant)
		}
	}

	for {
		select {
		case t := <-e.reqCh:
			queue = append(queue, t)
			tryGrant()
		case req := <-e.cancelCh:
			removed := false
			for i, qt := range queue {
				if qt == req.t {
					queue = append(queue[:i], queue[i+1:]...)
					removed = true
					break
				}
			}
			req.ack <- removed
		case <-e.releaseCh:
			holding = false
			tryGrant()
		case <-e.drainCh:
			tryGrant()
		}
	}
}

func (e *Executor) acquire(ctx context.Context, loadBypass bool) error {
	t := &ticket{grant: make(chan struct{}), loadBypass: loadBypass}
	select {
	case e.reqCh <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.grant:
		return nil
	case <-ctx.Done():
		ack := make(chan bool, 1)
		select {
		case e.cancelCh <- cancelRequest{t: t, ack: ack}:
		case <-t.grant:
			return nil
		}
		if <-ack {
			return ctx.Err()
		}
		// Lost the cancel race: the dispatcher had already granted the
		// ticket. Honor the grant so the lock's invariant (every grant
		// paired with a release) holds.
		<-t.grant
		return nil
	}
}

// LockWithContext acquires the single-writer lock, waiting in submission
// order behind any earlier caller. While the executor is still buffering,
// it additionally waits for DrainBuffer before it can reach the head of
// the queue.
func (e *Executor) LockWithContext(ctx context.Context) error {
	return e.acquire(ctx, false)
}

// LockForLoad acquires the single-writer lock without waiting on the
// pre-load buffer. Only LoadDatabase may call this.
func (e *Executor) LockForLoad(ctx context.Context) error {
	return e.acquire(ctx, true)
}

// Unlock releases the single-writer lock, letting the dispatcher grant the
// next queued ticket.
func (e *Executor) Unlock() {
	e.releaseCh <- struct{}{}
}

// DrainBuffer marks the pre-load buffer as drained. Tickets already queued
// behind LoadDatabase proceed to the lock in their original submission
// order.
func (e *Executor) DrainBuffer() {
	e.buffering.Store(false)
	e.drainCh <- struct{}{}
}

// Buffering reports whether the executor is still in its pre-load buffer
// state.
func (e *Executor) Buffering() bool {
	return e.buffering.Load()
}
