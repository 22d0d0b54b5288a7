package network

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/neuronlabs/uni-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
	"github.com/neuronlabs/tunables/store/memory"
	"github.com/neuronlabs/tunables/tunable"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Verbose() {
		_ = log.SetLevel(unilogger.DEBUG)
	}
	os.Exit(m.Run())
}

const waitFor, tick = 2 * time.Second, 5 * time.Millisecond

func testingServer(t *testing.T, options ...Option) (*Server, string) {
	t.Helper()
	s := NewServer(options...)
	hs := httptest.NewServer(s)
	t.Cleanup(func() {
		_ = s.Close()
		hs.Close()
	})
	return s, "ws" + strings.TrimPrefix(hs.URL, "http")
}

func testingClient(t *testing.T, url string, options ...Option) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	c, err := Dial(ctx, url, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func mirrorValue(c *Client, key string) (store.Value, bool) {
	e, ok := c.Mirror().Lookup(key)
	if !ok {
		return store.Value{}, false
	}
	return e.Get()
}

func TestPropagation(t *testing.T) {
	ctx := context.Background()
	s, url := testingServer(t)
	a := testingClient(t, url)
	b := testingClient(t, url)
	assert.Eventually(t, func() bool { return s.Clients() == 2 }, waitFor, tick)

	e, err := a.GetOrCreateEntry(ctx, "/components/drive/speed", store.DoubleValue(0.5), true)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		v, ok := mirrorValue(b, "/components/drive/speed")
		return ok && v.Double() == 0.5
	}, waitFor, tick)

	require.NoError(t, e.Set(store.DoubleValue(0.75)))
	assert.Eventually(t, func() bool {
		v, ok := mirrorValue(b, "/components/drive/speed")
		return ok && v.Double() == 0.75
	}, waitFor, tick)

	se, ok := s.Store().Lookup("/components/drive/speed")
	require.True(t, ok)
	v, _ := se.Get()
	assert.Equal(t, 0.75, v.Double())

	t.Run("ServerWrite", func(t *testing.T) {
		require.NoError(t, se.Set(store.DoubleValue(1)))
		for _, c := range []*Client{a, b} {
			assert.Eventually(t, func() bool {
				v, ok := mirrorValue(c, "/components/drive/speed")
				return ok && v.Double() == 1
			}, waitFor, tick)
		}
	})

	t.Run("Snapshot", func(t *testing.T) {
		c := testingClient(t, url)
		v, ok := mirrorValue(c, "/components/drive/speed")
		require.True(t, ok)
		assert.Equal(t, 1.0, v.Double())

		// existing value is preserved by the default
		e, err := c.GetOrCreateEntry(ctx, "/components/drive/speed", store.DoubleValue(0.5), true)
		require.NoError(t, err)
		v, _ = e.Get()
		assert.Equal(t, 1.0, v.Double())
	})
}

func TestDefault(t *testing.T) {
	ctx := context.Background()
	s, url := testingServer(t)
	_, err := s.Store().GetOrCreateEntry(ctx, "/components/arm/gain", store.IntegerValue(7), true)
	require.NoError(t, err)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	read := func() *message {
		_ = ws.SetReadDeadline(time.Now().Add(waitFor))
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		m, err := unmarshalMessage(data)
		require.NoError(t, err)
		return m
	}
	write := func(m *message) {
		data, err := m.marshal()
		require.NoError(t, err)
		require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, data))
	}

	m := read()
	assert.Equal(t, opSet, m.Op)
	assert.Equal(t, "/components/arm/gain", m.Key)
	assert.Equal(t, int64(7), m.Value.Integer())
	assert.Equal(t, opReady, read().Op)

	// default for an existing entry is answered with the current value
	write(newMessage(opDefault, "/components/arm/gain", store.IntegerValue(1), "raw-client"))
	m = read()
	assert.Equal(t, opSet, m.Op)
	assert.Equal(t, int64(7), m.Value.Integer())
	assert.Equal(t, s.ID(), m.Origin)

	// default for a new entry is applied and broadcast with the sender origin
	write(newMessage(opDefault, "/components/arm/length", store.DoubleValue(1.5), "raw-client"))
	m = read()
	assert.Equal(t, "/components/arm/length", m.Key)
	assert.Equal(t, 1.5, m.Value.Double())
	assert.Equal(t, "raw-client", m.Origin)

	e, ok := s.Store().Lookup("/components/arm/length")
	require.True(t, ok)
	v, _ := e.Get()
	assert.Equal(t, 1.5, v.Double())
}

func TestEcho(t *testing.T) {
	ctx := context.Background()
	_, url := testingServer(t)
	a := testingClient(t, url)
	b := testingClient(t, url)

	var (
		mu      sync.Mutex
		updates []float64
	)
	_, err := a.Mirror().Listen("/", store.NotifyUpdate|store.NotifyNew, func(n store.Notification) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, n.Value.Double())
	})
	require.NoError(t, err)

	ae, err := a.GetOrCreateEntry(ctx, "/x", store.DoubleValue(1), true)
	require.NoError(t, err)
	require.NoError(t, ae.Set(store.DoubleValue(2)))

	assert.Eventually(t, func() bool {
		v, ok := mirrorValue(b, "/x")
		return ok && v.Double() == 2
	}, waitFor, tick)

	be, err := b.GetEntry(ctx, "/x")
	require.NoError(t, err)
	require.NoError(t, be.Set(store.DoubleValue(3)))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(updates) == 1 && updates[0] == 3
	}, waitFor, tick)
}

func TestPendingWrites(t *testing.T) {
	c := &Client{
		id:      "robot",
		mirror:  memory.New(),
		ready:   make(chan struct{}),
		pending: map[string]string{},
	}
	close(c.ready)
	defer c.mirror.Close()

	const key = "/components/drive/speed"
	value := func() float64 {
		v, _ := mirrorValue(c, key)
		return v.Double()
	}
	require.NoError(t, c.mirror.SetRemote(key, store.DoubleValue(2)))
	c.pending[key] = "write-2"

	// the echo of an older write doesn't override the newer local value
	c.handle(&message{Op: opSet, Key: key, Value: store.DoubleValue(1), Origin: "robot", ID: "write-1"})
	assert.Equal(t, 2.0, value())

	// the server applied the remote write before the local one
	c.handle(&message{Op: opSet, Key: key, Value: store.DoubleValue(5), Origin: "dashboard", ID: "remote-1"})
	assert.Equal(t, 2.0, value())

	c.handle(&message{Op: opSet, Key: key, Value: store.DoubleValue(2), Origin: "robot", ID: "write-2"})
	assert.Equal(t, 2.0, value())
	assert.Empty(t, c.pending)

	c.handle(&message{Op: opSet, Key: key, Value: store.DoubleValue(6), Origin: "dashboard", ID: "remote-2"})
	assert.Equal(t, 6.0, value())

	t.Run("DefaultReply", func(t *testing.T) {
		c.pending[key] = "default-1"
		c.handle(&message{Op: opSet, Key: key, Value: store.DoubleValue(7), Origin: "server", ID: "default-1"})
		assert.Equal(t, 7.0, value())
		assert.Empty(t, c.pending)
	})
}

func TestWriteBurst(t *testing.T) {
	ctx := context.Background()
	s, url := testingServer(t)
	writer := testingClient(t, url)
	reader := testingClient(t, url)

	const key, n = "/components/shooter/rpm", 300
	e, err := writer.GetOrCreateEntry(ctx, key, store.IntegerValue(0), true)
	require.NoError(t, err)
	for i := 1; i <= n; i++ {
		require.NoError(t, e.Set(store.IntegerValue(int64(i))))
		v, ok := e.Get()
		require.True(t, ok)
		require.Equal(t, int64(i), v.Integer())
	}

	// the echoes of the older writes don't bring back the older values
	assert.Never(t, func() bool {
		v, _ := e.Get()
		return v.Integer() != n
	}, 300*time.Millisecond, tick)

	for _, c := range []*Client{writer, reader} {
		assert.Eventually(t, func() bool {
			v, ok := mirrorValue(c, key)
			return ok && v.Integer() == n
		}, waitFor, tick)
	}
	se, ok := s.Store().Lookup(key)
	require.True(t, ok)
	v, _ := se.Get()
	assert.Equal(t, int64(n), v.Integer())

	select {
	case <-writer.Done():
		t.Fatalf("writer disconnected: %v", writer.Err())
	default:
	}
}

func TestSlowClient(t *testing.T) {
	ctx := context.Background()
	s, url := testingServer(t, WithSendBuffer(2), WithWriteTimeout(100*time.Millisecond))
	writer := testingClient(t, url)
	slow := testingClient(t, url)

	const key = "/dashboard/camera/frame"
	e, err := writer.GetOrCreateEntry(ctx, key, store.StringValue(""), true)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		_, ok := slow.Mirror().Lookup(key)
		return ok
	}, waitFor, tick)

	// the slow client stops reading while its mirror entry is locked
	se, ok := slow.Mirror().Lookup(key)
	require.True(t, ok)
	locked, release := make(chan struct{}), make(chan struct{})
	var releaseOnce sync.Once
	unlock := func() { releaseOnce.Do(func() { close(release) }) }
	defer unlock()
	go se.View(func(store.Value, bool) {
		close(locked)
		<-release
	})
	<-locked

	frame := strings.Repeat("x", 96<<10)
	for i := 0; i < 300; i++ {
		require.NoError(t, e.Set(store.StringValue(fmt.Sprintf("%03d%s", i, frame))))
	}
	assert.Eventually(t, func() bool { return s.Clients() == 1 }, 5*time.Second, tick)
	unlock()

	select {
	case <-slow.Done():
	case <-time.After(waitFor):
		t.Fatal("slow client not disconnected")
	}
	err = slow.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))

	select {
	case <-writer.Done():
		t.Fatalf("writer disconnected: %v", writer.Err())
	default:
	}
	assert.Eventually(t, func() bool {
		e, ok := s.Store().Lookup(key)
		if !ok {
			return false
		}
		v, _ := e.Get()
		return strings.HasPrefix(v.String(), "299")
	}, waitFor, tick)
}

type elevator struct {
	tunable.Table
}

var (
	elevatorClass  = tunable.NewClass(&elevator{})
	elevatorHeight = tunable.MustNew(elevatorClass, "height", 0.25)
)

func TestTunableOverNetwork(t *testing.T) {
	ctx := context.Background()
	_, url := testingServer(t)
	robot := testingClient(t, url)
	dashboard := testingClient(t, url)

	var (
		mu     sync.Mutex
		values []float64
	)
	elevatorHeight.SetCallback(func(owner tunable.Owner, value float64) {
		mu.Lock()
		defer mu.Unlock()
		values = append(values, value)
	})
	defer elevatorHeight.SetCallback(nil)

	e := &elevator{}
	require.NoError(t, tunable.Setup(ctx, robot, e, "elevator"))
	assert.Equal(t, 0.25, elevatorHeight.MustGet(e))

	assert.Eventually(t, func() bool {
		_, ok := mirrorValue(dashboard, "/components/elevator/height")
		return ok
	}, waitFor, tick)
	de, err := dashboard.GetEntry(ctx, "/components/elevator/height")
	require.NoError(t, err)
	require.NoError(t, de.Set(store.DoubleValue(0.8)))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(values) == 1 && values[0] == 0.8
	}, waitFor, tick)
	assert.Equal(t, 0.8, elevatorHeight.MustGet(e))
}

func TestAuthorization(t *testing.T) {
	_, url := testingServer(t, WithTokenSecret("secret"))

	t.Run("NoToken", func(t *testing.T) {
		_, err := Dial(context.Background(), url)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("InvalidSecret", func(t *testing.T) {
		token, err := NewToken("other", "robot", time.Minute)
		require.NoError(t, err)
		_, err = Dial(context.Background(), url, WithToken(token))
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("NoExpiration", func(t *testing.T) {
		token, err := NewToken("secret", "robot", 0)
		require.NoError(t, err)
		c := testingClient(t, url, WithToken(token))
		assert.NotEmpty(t, c.ID())
	})

	t.Run("Valid", func(t *testing.T) {
		token, err := NewToken("secret", "robot", time.Minute)
		require.NoError(t, err)
		c := testingClient(t, url, WithToken(token))
		assert.NotEmpty(t, c.ID())
	})

	t.Run("EmptySecret", func(t *testing.T) {
		_, err := NewToken("", "robot", time.Minute)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})
}

func TestClientClose(t *testing.T) {
	s, url := testingServer(t)
	c := testingClient(t, url)

	require.NoError(t, s.Close())
	select {
	case <-c.Done():
	case <-time.After(waitFor):
		t.Fatal("client not closed")
	}
	e, err := c.GetOrCreateEntry(context.Background(), "/y", store.BooleanValue(true), false)
	require.NoError(t, err)
	err = e.Set(store.BooleanValue(false))
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestMiddlewareChain(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := MiddlewareChain{mw("first"), mw("second")}.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)

	t.Run("Subject", func(t *testing.T) {
		token, err := NewToken("secret", "dashboard", time.Minute)
		require.NoError(t, err)

		var subject string
		h := BearerAuth([]byte("secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ = Subject(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/nt?token="+token, nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "dashboard", subject)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nt", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
