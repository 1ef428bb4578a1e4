package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_AdmitsUpToCapThenDenies(t *testing.T) {
	req := require.New(t)
	limiter := NewLimiter(10, time.Minute)
	key := Key("10.0.0.1", "Swift-Otter-0482")

	// Given an empty window, exactly the cap is admitted
	for i := 0; i < 10; i++ {
		req.True(limiter.Allow(key), "call %d should be admitted", i+1)
	}

	// Then the next call within the same window is denied
	req.False(limiter.Allow(key))
	req.False(limiter.Allow(key))
}

func TestLimiter_WindowResets(t *testing.T) {
	req := require.New(t)
	limiter := NewLimiter(2, time.Minute)

	now := time.Unix(1000, 0)
	limiter.now = func() time.Time { return now }

	key := Key("10.0.0.1", "Quiet-Lynx-0001")
	req.True(limiter.Allow(key))
	req.True(limiter.Allow(key))
	req.False(limiter.Allow(key))

	// When the window elapses, the counter starts over
	now = now.Add(time.Minute)
	req.True(limiter.Allow(key))
	req.True(limiter.Allow(key))
	req.False(limiter.Allow(key))
}

func TestLimiter_KeysDoNotInterfere(t *testing.T) {
	req := require.New(t)
	limiter := NewLimiter(1, time.Minute)

	keyA := Key("10.0.0.1", "Brave-Heron-1111")
	keyB := Key("10.0.0.2", "Brave-Heron-1111")

	req.True(limiter.Allow(keyA))
	req.False(limiter.Allow(keyA))

	// Key B still has its full budget
	req.True(limiter.Allow(keyB))
}

func TestLimiter_ConcurrentAdmissionNeverExceedsCap(t *testing.T) {
	req := require.New(t)
	const maxPerWindow = 50
	limiter := NewLimiter(maxPerWindow, time.Minute)
	key := Key("10.0.0.1", "Witty-Stoat-9999")

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(key) {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	req.Equal(int64(maxPerWindow), admitted.Load())
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	req := require.New(t)
	limiter := NewLimiter(5, time.Minute)

	now := time.Unix(1000, 0)
	limiter.now = func() time.Time { return now }

	limiter.Allow(Key("10.0.0.1", "Lucky-Puffin-0001"))
	limiter.Allow(Key("10.0.0.2", "Lucky-Puffin-0002"))
	req.Equal(2, limiter.Size())

	// Nothing is swept while windows are fresh
	req.Zero(limiter.Sweep())

	// Two full periods later both keys are idle and dropped
	now = now.Add(2 * time.Minute)
	req.Equal(2, limiter.Sweep())
	req.Zero(limiter.Size())
}
