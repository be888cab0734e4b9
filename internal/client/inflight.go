package client

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// inflight serializes mutations per entity in submission order and folds
// concurrent identical requests into one round trip.
type inflight struct {
	group singleflight.Group

	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	busy    bool
	waiters []chan struct{}
}

func newInflight() *inflight {
	return &inflight{locks: make(map[string]*entityLock)}
}

// Serialize runs fn once every earlier mutation on the entity has finished.
func (g *inflight) Serialize(ctx context.Context, entityID string, fn func() error) error {
	if err := g.acquire(ctx, entityID); err != nil {
		return err
	}
	defer g.release(entityID)
	return fn()
}

// Do is Serialize plus deduplication: callers asking for the same operation
// on the same entity while one is outstanding share its result. The shared
// call runs under the context of the caller that started it.
func (g *inflight) Do(ctx context.Context, entityID, op string, fn func() (any, error)) (any, error) {
	value, err, _ := g.group.Do(entityID+"/"+op, func() (any, error) {
		var value any
		err := g.Serialize(ctx, entityID, func() error {
			var err error
			value, err = fn()
			return err
		})
		return value, err
	})
	return value, err
}

func (g *inflight) acquire(ctx context.Context, entityID string) error {
	g.mu.Lock()
	lock, ok := g.locks[entityID]
	if !ok {
		lock = &entityLock{}
		g.locks[entityID] = lock
	}
	if !lock.busy {
		lock.busy = true
		g.mu.Unlock()
		return nil
	}
	turn := make(chan struct{})
	lock.waiters = append(lock.waiters, turn)
	g.mu.Unlock()

	select {
	case <-turn:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		for i, waiter := range lock.waiters {
			if waiter == turn {
				lock.waiters = append(lock.waiters[:i], lock.waiters[i+1:]...)
				g.mu.Unlock()
				return &Error{Kind: KindCancelled, Message: "cancelled", Err: ctx.Err()}
			}
		}
		g.mu.Unlock()
		// The lock was handed over while we were giving up.
		g.release(entityID)
		return &Error{Kind: KindCancelled, Message: "cancelled", Err: ctx.Err()}
	}
}

func (g *inflight) release(entityID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[entityID]
	if !ok {
		return
	}
	if len(lock.waiters) > 0 {
		next := lock.waiters[0]
		lock.waiters = lock.waiters[1:]
		close(next)
		return
	}
	delete(g.locks, entityID)
}

func doTyped[T any](ctx context.Context, g *inflight, entityID, op string, fn func() (T, error)) (T, error) {
	value, err := g.Do(ctx, entityID, op, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
