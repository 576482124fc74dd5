package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHubTest() *Hub {
	hub := NewHub()
	go hub.Run()
	return hub
}

func newTestClient(hub *Hub, userID uint, buffer int) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data, ok := <-client.Send:
		require.True(t, ok, "send channel closed before an event arrived")
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_NotifyUser_ReachesAllSessions(t *testing.T) {
	hub := setupHubTest()

	first := newTestClient(hub, 1, 16)
	second := newTestClient(hub, 1, 16)
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)

	hub.NotifyUser(1, "cart_item_added", map[string]interface{}{
		"cart_id": 5,
		"item_id": 9,
	})

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, "cart_item_added", event.Type)
		payload := event.Payload.(map[string]interface{})
		assert.Equal(t, float64(5), payload["cart_id"])
		assert.Equal(t, float64(9), payload["item_id"])
	}
}

func TestHub_NotifyUser_ScopedToUser(t *testing.T) {
	hub := setupHubTest()

	mine := newTestClient(hub, 1, 16)
	theirs := newTestClient(hub, 2, 16)
	hub.Register(mine)
	hub.Register(theirs)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1) && hub.IsUserOnline(2)
	}, 2*time.Second, 10*time.Millisecond)

	hub.NotifyUser(1, "order_created", nil)

	event := receiveEvent(t, mine)
	assert.Equal(t, "order_created", event.Type)

	select {
	case data := <-theirs.Send:
		t.Fatalf("event leaked to another user: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_NotifyUser_OfflineUserIsDropped(t *testing.T) {
	hub := setupHubTest()

	// No sessions registered; must neither panic nor block
	hub.NotifyUser(42, "order_created", nil)

	assert.False(t, hub.IsUserOnline(42))
}

func TestHub_Unregister_ClosesSendAndGoesOffline(t *testing.T) {
	hub := setupHubTest()

	client := newTestClient(hub, 1, 16)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)

	// Events after disconnect go nowhere, without panicking
	hub.NotifyUser(1, "cart_item_added", nil)
	hub.NotifyUser(1, "cart_item_removed", nil)
}

func TestHub_FullSendBufferDropsSession(t *testing.T) {
	hub := setupHubTest()

	slow := newTestClient(hub, 1, 1)
	hub.Register(slow)
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)

	// First event fills the buffer, the second finds it full and
	// disconnects the session
	hub.NotifyUser(1, "cart_item_added", nil)
	hub.NotifyUser(1, "cart_item_added", nil)

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NotifyDuringChurn(t *testing.T) {
	hub := setupHubTest()

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Sessions connect and disconnect while events are being pushed;
	// a send must never land on a closed channel
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			client := newTestClient(hub, 1, 1)
			hub.Register(client)
			hub.Unregister(client)
		}
		close(done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				hub.NotifyUser(1, "cart_item_added", nil)
			}
		}
	}()

	wg.Wait()

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, 2*time.Second, 10*time.Millisecond)
}
