package memory

import (
	"sync"
	"sync/atomic"

	"github.com/neuronlabs/tunables/store"
)

// listener is a single entry or store subscription.
type listener struct {
	id        uint64
	flags     store.NotifyFlags
	fn        store.Listener
	prefix    string
	cancel    func()
	cancelled atomic.Bool
}

// Cancel implements store.Subscription interface.
func (l *listener) Cancel() {
	if l.cancelled.CompareAndSwap(false, true) && l.cancel != nil {
		l.cancel()
	}
}

func removeListener(listeners []*listener, l *listener) []*listener {
	for i, other := range listeners {
		if other == l {
			return append(listeners[:i:i], listeners[i+1:]...)
		}
	}
	return listeners
}

type delivery struct {
	l       *listener
	n       store.Notification
	barrier chan struct{}
}

// dispatcher delivers the notifications in FIFO order on a single goroutine.
// The queue is unbounded so that the listeners might write to the store without blocking.
type dispatcher struct {
	mu     sync.Mutex
	queue  []delivery
	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newDispatcher(size int) *dispatcher {
	if size <= 0 {
		size = 64
	}
	return &dispatcher{
		queue:  make([]delivery, 0, size),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (d *dispatcher) push(deliveries ...delivery) {
	if len(deliveries) == 0 {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, deliveries...)
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case <-d.signal:
		}

		for {
			d.mu.Lock()
			batch := d.queue
			d.queue = nil
			d.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, dl := range batch {
				select {
				case <-d.done:
					return
				default:
				}
				d.deliver(dl)
			}
		}
	}
}

func (d *dispatcher) deliver(dl delivery) {
	if dl.barrier != nil {
		close(dl.barrier)
		return
	}
	if dl.l.cancelled.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("listener for entry: '%s' panicked: %v", dl.n.Key, r)
		}
	}()
	dl.l.fn(dl.n)
}

func (d *dispatcher) close() {
	d.once.Do(func() { close(d.done) })
}
