package network

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
	"github.com/neuronlabs/tunables/store/memory"
)

// Server is the http.Handler serving the authoritative store to the websocket clients.
type Server struct {
	opts     *Options
	id       string
	store    *memory.Memory
	upgrader websocket.Upgrader
	handler  http.Handler

	// applyMu serializes the client writes.
	applyMu sync.Mutex
	// broadcastMu keeps the same message order for all clients.
	broadcastMu sync.Mutex

	mu     sync.Mutex
	conns  map[*conn]struct{}
	closed bool
}

// NewServer creates new store server.
func NewServer(options ...Option) *Server {
	s := &Server{
		opts:  newOptions(options...),
		id:    ulid.Make().String(),
		conns: map[*conn]struct{}{},
	}
	storeOptions := append(append([]store.Option{}, s.opts.StoreOptions...), store.WithOnSet(s.onLocalSet))
	s.store = memory.New(storeOptions...)

	chain := MiddlewareChain(s.opts.Middlewares)
	if len(s.opts.TokenSecret) > 0 {
		chain = append(chain, BearerAuth(s.opts.TokenSecret))
	}
	s.handler = chain.Handle(http.HandlerFunc(s.serveWebsocket))
	return s
}

// ID gets the server origin identifier.
func (s *Server) ID() string {
	return s.id
}

// Store gets the authoritative server store. Local writes on its entries are broadcast to all clients.
func (s *Server) Store() *memory.Memory {
	return s.store
}

// Clients gets the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	name := r.RemoteAddr
	if subject, ok := Subject(r.Context()); ok {
		name = subject + "@" + r.RemoteAddr
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Infof("Upgrading connection from: %s failed: %v", r.RemoteAddr, err)
		return
	}

	c := newConn(ws, s.opts, s.store.Len()+1+s.opts.SendBuffer, name)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ws.Close()
		return
	}
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	logger.Debugf("Client: %s connected", name)

	go c.writeLoop()
	if err = s.sendSnapshot(r, c); err != nil {
		logger.Errorf("Snapshot for: %s failed: %v", name, err)
		c.close()
	}
	err = c.readLoop(func(m *message) {
		s.handle(c, m)
	})

	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	if err != nil {
		logger.Infof("Client: %s disconnected: %v", name, err)
	} else {
		logger.Debugf("Client: %s disconnected", name)
	}
}

// Close closes all client connections and the server store.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for c := range s.conns {
		c.close()
	}
	s.mu.Unlock()
	return s.store.Close()
}

// sendSnapshot sends the connection all set entries followed by the ready marker. Each entry is sent
// while it is locked, thus the broadcasts of the entry are queued either before or after its snapshot.
func (s *Server) sendSnapshot(r *http.Request, c *conn) error {
	entries, err := s.store.Find(r.Context())
	if err != nil {
		return err
	}
	for _, e := range entries {
		e.View(func(v store.Value, ok bool) {
			if !ok {
				return
			}
			err = c.enqueue(newMessage(opSet, e.Key(), v, s.id))
		})
		if err != nil {
			return err
		}
	}
	return c.enqueue(newMessage(opReady, "", store.Value{}, s.id))
}

// handle applies the client write. The broadcast is done while the entry is locked, thus the clients get
// the changes of each entry in the store order.
func (s *Server) handle(c *conn, m *message) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	var guard memory.ApplyGuard
	switch m.Op {
	case opDefault:
		guard = func(current store.Value) bool {
			if current.IsValid() {
				// the entry already exists, the sender gets its current value in reply to its message.
				s.reply(c, m, current)
				return false
			}
			s.broadcast(m)
			return true
		}
	case opSet:
		guard = func(store.Value) bool {
			s.broadcast(m)
			return true
		}
	default:
		logger.Debugf("[%s] unexpected operation: %s", c, m.Op)
		return
	}

	if err := s.store.ApplyRemote(m.Key, m.Value, true, guard); err != nil {
		logger.Warningf("[%s] applying: '%s' failed: %v", c, m.Key, err)
	}
}

func (s *Server) onLocalSet(key string, value store.Value, _ bool) error {
	s.broadcast(newMessage(opSet, key, value, s.id))
	return nil
}

// reply sends the sender of the message 'm' the 'current' value of its entry.
func (s *Server) reply(c *conn, m *message, current store.Value) {
	if err := c.enqueue(&message{Op: opSet, Key: m.Key, Value: current, Origin: s.id, ID: m.ID}); err != nil {
		logger.Warningf("[%s] reply: '%s' failed: %v", c, m.Key, err)
		if errors.Is(err, ErrBufferFull) {
			c.closeWith(websocket.CloseTryAgainLater, "send buffer full")
		}
	}
}

// broadcast sends the message to all clients. A full send buffer blocks the broadcast for up to
// the write timeout, clients that still can't keep up are disconnected.
func (s *Server) broadcast(m *message) {
	data, err := (&message{Op: opSet, Key: m.Key, Value: m.Value, Origin: m.Origin, ID: m.ID}).marshal()
	if err != nil {
		logger.Errorf("Marshaling message: '%s' failed: %v", m.Key, err)
		return
	}
	s.broadcastMu.Lock()
	defer s.broadcastMu.Unlock()

	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.enqueueWait(data, s.opts.WriteTimeout); err != nil && errors.Is(err, ErrBufferFull) {
			logger.Warningf("[%s] disconnecting: %v", c, err)
			c.closeWith(websocket.CloseTryAgainLater, "send buffer full")
		}
	}
}
