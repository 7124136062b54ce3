package pipeline

import (
	"context"
	"fmt"
	"sync"

	"lifestory/internal/errs"
)

// keyedLocker serializes work per key. Entries are dropped once no caller
// holds or waits for them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*keyedLock)}
}

func chapterKey(customerID string, chapterNumber int) string {
	return fmt.Sprintf("%s#%d", customerID, chapterNumber)
}

// acquire blocks until key is free or ctx is done.
func (k *keyedLocker) acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		k.unref(key, l)
		return nil, errs.Wrap(ctx.Err(), "wait for chapter lock")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			k.unref(key, l)
		})
	}, nil
}

func (k *keyedLocker) unref(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
