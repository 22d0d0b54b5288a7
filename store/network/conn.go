package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
)

var logger = log.NewModuleLogger("network")

// conn is a single websocket connection with its own writer goroutine.
type conn struct {
	ws   *websocket.Conn
	opts *Options
	name string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closeCode int
	closeText string
}

func newConn(ws *websocket.Conn, opts *Options, bufferSize int, name string) *conn {
	return &conn{
		ws:        ws,
		opts:      opts,
		name:      name,
		send:      make(chan []byte, bufferSize),
		closeCode: websocket.CloseNormalClosure,
		done:      make(chan struct{}),
	}
}

// String implements fmt.Stringer interface.
func (c *conn) String() string {
	return c.name
}

// enqueue queues the message waiting up to the write timeout for the space in the send buffer.
func (c *conn) enqueue(m *message) error {
	data, err := m.marshal()
	if err != nil {
		return err
	}
	return c.enqueueWait(data, c.opts.WriteTimeout)
}

func (c *conn) enqueueBytes(data []byte) error {
	select {
	case <-c.done:
		return errors.WrapDetf(ErrConnection, "connection: '%s' is closed", c.name)
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errors.WrapDetf(ErrBufferFull, "connection: '%s'", c.name)
	}
}

// enqueueWait queues the 'data' waiting up to the 'timeout' for the space in the send buffer.
func (c *conn) enqueueWait(data []byte, timeout time.Duration) error {
	if err := c.enqueueBytes(data); err == nil || !errors.Is(err, ErrBufferFull) {
		return err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.WrapDetf(ErrConnection, "connection: '%s' is closed", c.name)
	case <-timer.C:
		return errors.WrapDetf(ErrBufferFull, "connection: '%s' blocked for: %s", c.name, timeout)
	}
}

func (c *conn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// close stops the connection. The websocket is closed by the writer.
func (c *conn) close() {
	c.closeWith(websocket.CloseNormalClosure, "")
}

// closeWith stops the connection sending the peer the close 'code' and 'text'.
func (c *conn) closeWith(code int, text string) {
	c.closeOnce.Do(func() {
		c.closeCode, c.closeText = code, text
		close(c.done)
	})
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(c.closeCode, c.closeText), time.Now().Add(c.opts.WriteTimeout))
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				logger.Infof("[%s] write failed: %v", c.name, err)
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteTimeout)); err != nil {
				logger.Infof("[%s] ping failed: %v", c.name, err)
				return
			}
		}
	}
}

// flush writes the messages queued before the connection was closed.
func (c *conn) flush() {
	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readLoop reads the messages until the connection is closed. The messages are handled in order.
// Returns nil if the connection was closed locally.
func (c *conn) readLoop(handle func(m *message)) error {
	defer c.close()

	readTimeout := 2 * c.opts.PingInterval
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
				return errors.WrapDetf(ErrBufferFull, "[%s] disconnected by the peer: %v", c.name, err)
			}
			return errors.WrapDetf(ErrConnection, "[%s] read: %v", c.name, err)
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		if messageType != websocket.BinaryMessage {
			logger.Debug2f("[%s] skipping message of type: %d", c.name, messageType)
			continue
		}
		m, err := unmarshalMessage(data)
		if err != nil {
			logger.Warningf("[%s] %v", c.name, err)
			continue
		}
		logger.Debug3f("[%s] <- %s '%s' %v", c.name, m.Op, m.Key, m.Value)
		handle(m)
	}
}
