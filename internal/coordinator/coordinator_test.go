package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal Transactor for exercising the coordinator without
// a real database.
type fakeStore struct {
	mu       sync.Mutex
	active   bool
	begins   int
	commits  int
	rollback int
}

func (f *fakeStore) InTransaction() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeStore) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active {
		return nil
	}
	f.active = true
	f.begins++
	return nil
}

func (f *fakeStore) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
	f.commits++
	return nil
}

func (f *fakeStore) Rollback() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return nil
	}
	f.active = false
	f.rollback++
	return nil
}

func TestFor_ReturnsSameInstance(t *testing.T) {
	s := &fakeStore{}
	c1 := For(s)
	c2 := For(s)
	assert.Same(t, c1, c2)
	Shutdown(s)
}

func TestExecuteInTransaction_CommitsOnSuccess(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	ran := false
	err := c.ExecuteInTransaction(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, s.begins)
	assert.Equal(t, 1, s.commits)
	assert.Equal(t, 0, s.rollback)
}

func TestExecuteInTransaction_RollsBackOnError(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	boom := errors.New("boom")
	err := c.ExecuteInTransaction(func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.begins)
	assert.Equal(t, 0, s.commits)
	assert.Equal(t, 1, s.rollback)
}

func TestExecuteInTransaction_NestedRunsDirectly(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	var innerBegins int
	err := c.ExecuteInTransaction(func() error {
		// Simulate an inner call attempting its own transaction.
		return c.ExecuteInTransaction(func() error {
			innerBegins++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, innerBegins)
	assert.Equal(t, 1, s.begins, "nested call must not open a second transaction")
}

func TestExecuteInTransaction_PreservesSubmissionOrder(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.ExecuteInTransaction(func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		time.Sleep(time.Millisecond) // keep submission order deterministic-ish
	}
	wg.Wait()

	require.Len(t, order, 20)
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
}

func TestExecuteWithTimeout_TimesOut(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	err := c.ExecuteWithTimeout(context.Background(), func() error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}, 5)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExecuteWithRetry_RetriesRetryableErrors(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	attempts := 0
	err := c.ExecuteWithRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_NonRetryableFailsFast(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	attempts := 0
	boom := errors.New("invalid argument")
	err := c.ExecuteWithRetry(func() error {
		attempts++
		return boom
	}, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetry_ExhaustsAttempts(t *testing.T) {
	s := &fakeStore{}
	defer Shutdown(s)
	c := For(s)

	attempts := 0
	err := c.ExecuteWithRetry(func() error {
		attempts++
		return errors.New("database is busy")
	}, 3)
	require.Error(t, err)
	var exhausted *ErrRetryExhausted
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3, attempts)
}
