package network

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
	"github.com/neuronlabs/tunables/store/memory"
)

// Compile time check if the Client implements store.Store.
var _ store.Store = &Client{}

// Client is the store client that mirrors the server store. The local writes are applied to the mirror
// immediately and sent to the server without waiting for the acknowledgement. While the local write of a key
// is in flight, the older messages of that key are not applied to the mirror.
// A full send buffer blocks the writer up to the write timeout.
// The client doesn't reconnect, once the connection is broken the Done channel is closed and Err
// gets the reason.
type Client struct {
	id     string
	opts   *Options
	mirror *memory.Memory
	conn   *conn

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error

	// pending keeps the message id of the latest local write in flight per key.
	pendingMu sync.Mutex
	pending   map[string]string
}

// Dial connects to the store server at 'url' and waits for the initial snapshot.
func Dial(ctx context.Context, url string, options ...Option) (*Client, error) {
	o := newOptions(options...)
	header := http.Header{}
	if o.Token != "" {
		header.Set("Authorization", "Bearer "+o.Token)
	}
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.WrapDetf(ErrUnauthorized, "dial: '%s'", url)
		}
		return nil, errors.WrapDetf(ErrConnection, "dial: '%s': %v", url, err)
	}

	c := &Client{
		id:      ulid.Make().String(),
		opts:    o,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		pending: map[string]string{},
	}
	storeOptions := append(append([]store.Option{}, o.StoreOptions...), store.WithOnSet(c.onLocalSet))
	c.mirror = memory.New(storeOptions...)
	c.conn = newConn(ws, o, o.SendBuffer, url)
	go c.conn.writeLoop()
	go c.run()

	select {
	case <-c.ready:
		logger.Debugf("Client: %s connected to: '%s'", c.id, url)
		return c, nil
	case <-c.done:
		_ = c.mirror.Close()
		if err = c.Err(); err == nil {
			err = errors.WrapDetf(ErrConnection, "connection: '%s' closed before the snapshot", url)
		}
		return nil, err
	case <-ctx.Done():
		_ = c.Close()
		return nil, ctx.Err()
	}
}

// ID gets the client origin identifier.
func (c *Client) ID() string {
	return c.id
}

// Mirror gets the local mirror store.
func (c *Client) Mirror() *memory.Memory {
	return c.mirror
}

// GetOrCreateEntry implements store.Store interface. A created entry default is sent to the server,
// which keeps its current value if the entry is already set.
func (c *Client) GetOrCreateEntry(ctx context.Context, key string, def store.Value, writeDefault bool) (store.Entry, error) {
	return c.mirror.GetOrCreateEntry(ctx, key, def, writeDefault)
}

// GetEntry implements store.Store interface.
func (c *Client) GetEntry(ctx context.Context, key string) (store.Entry, error) {
	return c.mirror.GetEntry(ctx, key)
}

// Done gets the channel closed when the connection is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err gets the error the connection was broken with.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close closes the connection and the mirror store. The pending writes are flushed before closing.
func (c *Client) Close() error {
	c.conn.close()
	<-c.done
	return c.mirror.Close()
}

func (c *Client) run() {
	err := c.conn.readLoop(c.handle)
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.done)
	if err != nil {
		logger.Warningf("Client: %s disconnected: %v", c.id, err)
	}
}

func (c *Client) isReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

func (c *Client) handle(m *message) {
	switch m.Op {
	case opReady:
		c.readyOnce.Do(func() { close(c.ready) })
	case opSet:
		// snapshot and echoes of own writes are not notified.
		notify := m.Origin != c.id && c.isReady()
		guard := func(store.Value) bool {
			if c.superseded(m) {
				logger.Debug3f("Client: %s skipping: '%s' superseded by a local write", c.id, m.Key)
				return false
			}
			return true
		}
		if err := c.mirror.ApplyRemote(m.Key, m.Value, notify, guard); err != nil {
			logger.Warningf("Client: %s applying: '%s' failed: %v", c.id, m.Key, err)
		}
	}
}

// superseded checks if a newer local write of the message key is still in flight.
// The server answers each write in order, thus the answer to the latest write clears the pending state.
func (c *Client) superseded(m *message) bool {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	id, ok := c.pending[m.Key]
	if !ok {
		return false
	}
	if id == m.ID {
		delete(c.pending, m.Key)
		return false
	}
	return true
}

// onLocalSet is called while the mirror entry is locked, thus the pending write is registered
// before any answer of the server could be applied.
func (c *Client) onLocalSet(key string, value store.Value, isDefault bool) error {
	o := opSet
	if isDefault {
		o = opDefault
	}
	m := newMessage(o, key, value, c.id)
	data, err := m.marshal()
	if err != nil {
		return err
	}
	if err = c.conn.enqueueWait(data, c.opts.WriteTimeout); err != nil {
		return err
	}

	c.pendingMu.Lock()
	c.pending[key] = m.ID
	c.pendingMu.Unlock()
	return nil
}
