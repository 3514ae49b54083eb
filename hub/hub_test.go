package hub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub()
	go h.Run()
	defer h.Stop()

	client := &Client{Send: make(chan []byte, 10)}
	require.True(t, h.Register(client))

	h.Broadcast([]byte(`{"collection":"places"}`))

	select {
	case got := <-client.Send:
		assert.JSONEq(t, `{"collection":"places"}`, string(got))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}

	h.Unregister(client)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestStopClosesClientsAndIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub()
	go h.Run()

	client := &Client{Send: make(chan []byte, 1)}
	require.True(t, h.Register(client))

	h.Stop()
	h.Stop()

	_, open := <-client.Send
	assert.False(t, open)
	assert.False(t, h.Register(&Client{Send: make(chan []byte)}))
	h.Broadcast([]byte("ignored"))
}

func TestSlowClientIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHub()
	go h.Run()
	defer h.Stop()

	slow := &Client{Send: make(chan []byte, 1)}
	slow.Send <- []byte("queued")
	require.True(t, h.Register(slow))
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast([]byte("x"))
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 10*time.Millisecond)

	msg, open := <-slow.Send
	assert.True(t, open)
	assert.Equal(t, []byte("queued"), msg)
	_, open = <-slow.Send
	assert.False(t, open)
}

func TestServeWSDeliversEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub()
	go h.Run()

	router := httprouter.New()
	router.GET("/ws", ServeWS(h))
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Broadcast([]byte(`{"collection":"budget"}`))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"collection":"budget"}`, string(msg))

	conn.Close()
	h.Stop()
	srv.Close()
}
