package authz

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySeedsOwner(t *testing.T) {
	r := New(42)

	assert.True(t, r.IsAuthorized(42))
	assert.False(t, r.IsAuthorized(7))
	assert.Equal(t, int64(42), r.Owner())
}

func TestAuthorizeIdempotent(t *testing.T) {
	r := New(42)

	r.Authorize(7)
	r.Authorize(7)
	assert.True(t, r.IsAuthorized(7))

	// Re-authorizing the owner is redundant-safe.
	require.True(t, r.IsAuthorized(42))
	r.Authorize(42)
	assert.True(t, r.IsAuthorized(42))
}

func TestConcurrentAuthorizeAndCheck(t *testing.T) {
	r := New(1)

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func(id int64) {
			defer wg.Done()
			r.Authorize(id)
			_ = r.IsAuthorized(id)
		}(int64(i))
	}
	wg.Wait()

	for i := range workers {
		assert.True(t, r.IsAuthorized(int64(i)))
	}
}
