package locker

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountLocker(t *testing.T) {
	t.Parallel()

	t.Run("serializes same account", func(t *testing.T) {
		l := New()

		counter := 0
		var wg sync.WaitGroup
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = l.WithLock(1, func() error {
					counter++
					return nil
				})
			}()
		}
		wg.Wait()

		require.Equal(t, 100, counter, "increments under the same account lock should not be lost")
	})

	t.Run("returns fn error", func(t *testing.T) {
		l := New()

		errBoom := errors.New("boom")
		err := l.WithLock(1, func() error {
			return errBoom
		})

		require.ErrorIs(t, err, errBoom)
	})

	t.Run("releases idle locks", func(t *testing.T) {
		l := New()

		err := l.WithLock(42, func() error { return nil })
		require.NoError(t, err)

		l.mu.Lock()
		defer l.mu.Unlock()
		require.Empty(t, l.locks, "lock map should not grow without bound")
	})

	t.Run("distinct accounts do not block", func(t *testing.T) {
		l := New()

		release := make(chan struct{})
		held := make(chan struct{})

		go func() {
			_ = l.WithLock(1, func() error {
				close(held)
				<-release
				return nil
			})
		}()

		<-held
		err := l.WithLock(2, func() error { return nil })
		close(release)

		require.NoError(t, err, "lock for another account should be acquirable immediately")
	})
}
