package node

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

func TestTrackerDeliversResponse(t *testing.T) {
	tr := newTracker()
	w := tr.register("a")
	require.Equal(t, 1, tr.pending())

	require.True(t, tr.onResponseReceived(common.NewSuccessResponse("a", []byte("42"))))
	require.Equal(t, waitSignaled, w.await(time.Second))
	require.Zero(t, tr.pending())

	resp, ok := tr.consume("a")
	require.True(t, ok)
	require.Equal(t, "42", string(resp.Result))

	// consumed exactly once
	_, ok = tr.consume("a")
	require.False(t, ok)
}

func TestTrackerDropsResponseWithoutWaiter(t *testing.T) {
	tr := newTracker()

	require.False(t, tr.onResponseReceived(common.NewSuccessResponse("unknown", nil)))
	_, ok := tr.consume("unknown")
	require.False(t, ok)
	require.Zero(t, tr.responses.Size())
}

func TestTrackerIgnoresDuplicateResponse(t *testing.T) {
	tr := newTracker()
	tr.register("a")

	require.True(t, tr.onResponseReceived(common.NewSuccessResponse("a", []byte("first"))))
	require.False(t, tr.onResponseReceived(common.NewSuccessResponse("a", []byte("second"))))

	resp, ok := tr.consume("a")
	require.True(t, ok)
	require.Equal(t, "first", string(resp.Result))
}

func TestTrackerDiscard(t *testing.T) {
	tr := newTracker()
	tr.register("a")
	tr.register("b")
	tr.onResponseReceived(common.NewSuccessResponse("b", nil))

	tr.discard("a")
	tr.discard("b")
	tr.discard("never-registered")

	require.Zero(t, tr.pending())
	require.Zero(t, tr.responses.Size())
}

func TestTrackerFailAll(t *testing.T) {
	tr := newTracker()
	waiters := []*waiter{tr.register("a"), tr.register("b"), tr.register("c")}

	require.Equal(t, 3, tr.failAll())
	require.Zero(t, tr.pending())
	for _, w := range waiters {
		require.Equal(t, waitSignaled, w.await(time.Second))
	}

	// nothing stored, the senders see a signal without response
	_, ok := tr.consume("a")
	require.False(t, ok)
	require.Zero(t, tr.failAll())
}

func TestTrackerInterrupt(t *testing.T) {
	tr := newTracker()
	w := tr.register("a")

	tr.interrupt("a")
	tr.interrupt("unknown")
	require.Equal(t, waitInterrupted, w.await(time.Second))

	// the waiter is still pending after an interrupt
	require.Equal(t, 1, tr.pending())
	require.True(t, tr.onResponseReceived(common.NewSuccessResponse("a", nil)))
	require.Equal(t, waitSignaled, w.await(time.Second))
}

func TestWaiterTimeout(t *testing.T) {
	w := newWaiter()

	start := time.Now()
	require.Equal(t, waitTimedOut, w.await(50*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	require.Equal(t, waitTimedOut, w.await(0))
	require.Equal(t, waitTimedOut, w.await(-time.Second))

	w.signal()
	w.signal() // second signal has no effect
	require.Equal(t, waitSignaled, w.await(0))
}

func TestTrackerConcurrentUse(t *testing.T) {
	tr := newTracker()
	gen := NewSequenceGenerator("c-")

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.NextID()
			w := tr.register(id)
			defer tr.discard(id)

			go tr.onResponseReceived(common.NewSuccessResponse(id, []byte(id)))

			if w.await(5*time.Second) != waitSignaled {
				t.Errorf("waiter %s not signaled", id)
				return
			}
			resp, ok := tr.consume(id)
			if !ok || string(resp.Result) != id {
				t.Errorf("waiter %s got wrong response %+v", id, resp)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, tr.pending())
	require.Zero(t, tr.responses.Size())
}

func TestIDGenerators(t *testing.T) {
	for name, gen := range map[string]IIDGenerator{
		"uuid":     NewUUIDGenerator(),
		"sequence": NewSequenceGenerator("n1-"),
	} {
		t.Run(name, func(t *testing.T) {
			seen := make(map[string]struct{})
			for i := 0; i < 1000; i++ {
				id := gen.NextID()
				require.NotEmpty(t, id)
				_, dup := seen[id]
				require.False(t, dup, "duplicate id %s", id)
				seen[id] = struct{}{}
			}
		})
	}

	seq := NewSequenceGenerator("x-")
	require.Equal(t, "x-1", seq.NextID())
	require.Equal(t, "x-2", seq.NextID())
}
