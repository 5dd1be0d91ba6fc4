package node

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Waiter
// --------------------------------------------------------------------------

type waitResult int

const (
	waitSignaled waitResult = iota
	waitInterrupted
	waitTimedOut
)

// waiter is a single-fire rendezvous between the goroutine reading responses
// and the goroutine waiting in Send
type waiter struct {
	done       chan struct{}
	once       sync.Once
	interrupts chan struct{}
}

func newWaiter() *waiter {
	return &waiter{
		done:       make(chan struct{}),
		interrupts: make(chan struct{}, 1),
	}
}

// signal wakes the waiting goroutine, only the first call has an effect
func (w *waiter) signal() {
	w.once.Do(func() { close(w.done) })
}

// interrupt wakes the waiting goroutine without signaling it
func (w *waiter) interrupt() {
	select {
	case w.interrupts <- struct{}{}:
	default:
	}
}

func (w *waiter) await(timeout time.Duration) waitResult {
	if timeout <= 0 {
		select {
		case <-w.done:
			return waitSignaled
		default:
			return waitTimedOut
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.done:
		return waitSignaled
	case <-w.interrupts:
		return waitInterrupted
	case <-timer.C:
		return waitTimedOut
	}
}

// --------------------------------------------------------------------------
// Tracker
// --------------------------------------------------------------------------

// tracker matches responses to pending requests by correlation id. It keeps
// waiters and arrived responses apart, so the sender can find a response that
// was stored just before or after its waiter fired.
type tracker struct {
	waiters   *xsync.MapOf[string, *waiter]
	responses *xsync.MapOf[string, *common.Response]
}

func newTracker() *tracker {
	return &tracker{
		waiters:   xsync.NewMapOf[string, *waiter](),
		responses: xsync.NewMapOf[string, *common.Response](),
	}
}

// register creates the waiter for id. Must be called before the command is written.
func (t *tracker) register(id string) *waiter {
	w := newWaiter()
	t.waiters.Store(id, w)
	return w
}

// onResponseReceived hands a response to its waiter. It returns false if no
// waiter is pending for the id (late or duplicate response), the response is
// then dropped.
func (t *tracker) onResponseReceived(resp *common.Response) bool {
	w, ok := t.waiters.LoadAndDelete(resp.CorrelationID)
	if !ok {
		return false
	}
	t.responses.Store(resp.CorrelationID, resp)
	w.signal()
	return true
}

// consume removes and returns the response stored for id
func (t *tracker) consume(id string) (*common.Response, bool) {
	return t.responses.LoadAndDelete(id)
}

// discard removes everything still tracked for id
func (t *tracker) discard(id string) {
	t.waiters.Delete(id)
	t.responses.Delete(id)
}

// interrupt wakes the sender waiting for id without a response. It models a
// spurious wake-up: the sender finds no response and waits again for the rest
// of its timeout.
func (t *tracker) interrupt(id string) {
	if w, ok := t.waiters.Load(id); ok {
		w.interrupt()
	}
}

// failAll signals every pending waiter without a response
func (t *tracker) failAll() int {
	n := 0
	t.waiters.Range(func(id string, _ *waiter) bool {
		if w, ok := t.waiters.LoadAndDelete(id); ok {
			w.signal()
			n++
		}
		return true
	})
	return n
}

// pending returns the number of requests waiting for a response
func (t *tracker) pending() int {
	return t.waiters.Size()
}
