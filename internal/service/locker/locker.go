// Package locker serializes balance-changing operations per account number.
// Deposit, withdraw and soft delete are read-modify-write rounds against the
// repository; without a per-account serialization point two concurrent calls
// for the same account could lose an update between read and persist.
package locker

import (
	"sync"
)

type AccountLocker struct {
	mu    sync.Mutex
	locks map[int64]*accountLock
}

type accountLock struct {
	mu sync.Mutex

	// Number of goroutines holding or waiting for the lock.
	// Guarded by AccountLocker.mu, lets idle entries be released.
	refs int
}

func New() *AccountLocker {
	return &AccountLocker{
		locks: make(map[int64]*accountLock),
	}
}

// WithLock runs fn while holding the mutex for the account number.
// Locks for distinct numbers are independent and never block each other.
func (l *AccountLocker) WithLock(number int64, fn func() error) error {
	lock := l.acquire(number)
	lock.mu.Lock()

	defer func() {
		lock.mu.Unlock()
		l.release(number, lock)
	}()

	return fn()
}

func (l *AccountLocker) acquire(number int64) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[number]
	if !ok {
		lock = &accountLock{}
		l.locks[number] = lock
	}
	lock.refs++

	return lock
}

func (l *AccountLocker) release(number int64, lock *accountLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, number)
	}
}
