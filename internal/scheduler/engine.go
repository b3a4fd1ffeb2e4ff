package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

type firing struct {
	Handle Handle
	At     time.Time
}

// firingHeap orders pending firings by time, earliest first.
type firingHeap []firing

func (h firingHeap) Len() int           { return len(h) }
func (h firingHeap) Less(i, j int) bool { return h[i].At.Before(h[j].At) }
func (h firingHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *firingHeap) Push(x any) { *h = append(*h, x.(firing)) }

func (h *firingHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// engine runs fire for each absolute-time trigger once its time has passed.
// fire runs on the engine goroutine; firings that come due while it is busy
// are handed over, in time order, as soon as it returns.
type engine struct {
	fire func(Handle)

	mu      sync.Mutex
	pending firingHeap
	running bool
	stopped bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newEngine(fire func(Handle)) *engine {
	return &engine{
		fire: fire,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (e *engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.stopped {
		return
	}
	e.running = true
	go e.run()
}

// Stop waits for an in-flight fire to return. Pending firings are discarded.
func (e *engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	running := e.running
	close(e.quit)
	e.mu.Unlock()

	if running {
		<-e.done
	}
}

func (e *engine) Schedule(f firing) error {
	if f.At.IsZero() {
		return ErrInvalidTrigger
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	heap.Push(&e.pending, f)
	e.poke()
	return nil
}

// Remove drops a pending firing and reports whether it was queued.
func (e *engine) Remove(h Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, f := range e.pending {
		if f.Handle == h {
			heap.Remove(&e.pending, i)
			e.poke()
			return true
		}
	}
	return false
}

func (e *engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = e.pending[:0]
	e.poke()
}

func (e *engine) poke() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *engine) run() {
	defer close(e.done)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		due, next, ok := e.take(time.Now())
		for _, h := range due {
			select {
			case <-e.quit:
				return
			default:
			}
			e.fire(h)
		}
		if len(due) > 0 {
			continue
		}

		var alarm <-chan time.Time
		if ok {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(time.Until(next))
			alarm = timer.C
		}

		select {
		case <-alarm:
		case <-e.wake:
		case <-e.quit:
			return
		}
	}
}

// take pops every firing due at now and returns the time of the next one.
func (e *engine) take(now time.Time) ([]Handle, time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []Handle
	for len(e.pending) > 0 && !e.pending[0].At.After(now) {
		due = append(due, heap.Pop(&e.pending).(firing).Handle)
	}
	if len(e.pending) == 0 {
		return due, time.Time{}, false
	}
	return due, e.pending[0].At, true
}
