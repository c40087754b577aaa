package panel

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInFlightGuard_BlocksRepeatSubmission(t *testing.T) {
	g := NewInFlightGuard()

	release, err := g.Start("create-ticket", "p1")
	require.NoError(t, err)

	_, err = g.Start("create-ticket", "p1")
	assert.True(t, errors.Is(err, ErrInFlight))

	release()

	release2, err := g.Start("create-ticket", "p1")
	require.NoError(t, err)
	release2()
}

func TestInFlightGuard_DistinctTargetsDoNotBlock(t *testing.T) {
	g := NewInFlightGuard()

	r1, err := g.Start("upload", "t1")
	require.NoError(t, err)
	defer r1()

	r2, err := g.Start("upload", "t2")
	require.NoError(t, err)
	defer r2()

	r3, err := g.Start("delete", "t1")
	require.NoError(t, err)
	defer r3()
}

func TestInFlightGuard_ReleaseIsIdempotent(t *testing.T) {
	g := NewInFlightGuard()

	release, err := g.Start("save", "u1")
	require.NoError(t, err)
	release()
	release()

	_, err = g.Start("save", "u1")
	assert.NoError(t, err)
}

func TestInFlightGuard_Concurrent(t *testing.T) {
	g := NewInFlightGuard()

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Start("submit", "form"); err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won, "exactly one concurrent submission may win")
}
