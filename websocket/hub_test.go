package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dialTestClient upgrades a loopback connection, registers it with the hub
// and waits for the registration to land in the hub loop.
func dialTestClient(t *testing.T, hub *Hub, userID primitive.ObjectID, isAdmin bool) *websocket.Conn {
	t.Helper()

	upgr := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.register <- &Client{UserID: userID, IsAdmin: isAdmin, Conn: conn}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := hub.SendToUser(userID, Notification{Type: "connected"}); err == nil {
			return conn
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client never registered with hub")
	return nil
}

func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: NotificationTypeTicketUpdate})
	assert.Error(t, err)
}

func TestConcurrentWritesToOneConnection(t *testing.T) {
	// Withdrawal requests and ticket updates land on the same admin
	// connection from separate request goroutines; writes must be
	// serialized per client. Run with -race.
	hub := NewHub()
	go hub.Run()

	adminID := primitive.NewObjectID()
	conn := dialTestClient(t, hub, adminID, true)

	const senders = 8
	const perSender = 25
	want := senders * perSender * 2

	received := make(chan Notification, want+senders)
	go func() {
		for {
			var n Notification
			if err := conn.ReadJSON(&n); err != nil {
				return
			}
			received <- n
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.SendToUser(adminID, Notification{Type: NotificationTypeTicketUpdate})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.BroadcastToAdmins(Notification{Type: NotificationTypeWithdrawalRequest})
			}
		}()
	}
	wg.Wait()

	got := 0
	timeout := time.After(3 * time.Second)
	for got < want {
		select {
		case n := <-received:
			if n.Type == NotificationTypeTicketUpdate || n.Type == NotificationTypeWithdrawalRequest {
				got++
			}
		case <-timeout:
			t.Fatalf("received %d of %d notifications", got, want)
		}
	}
	assert.Equal(t, want, got)
}

func TestBroadcastSkipsMembers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	memberID := primitive.NewObjectID()
	memberConn := dialTestClient(t, hub, memberID, false)

	hub.BroadcastToAdmins(Notification{Type: NotificationTypeWithdrawalRequest})

	// The member connection only ever sees the registration probe.
	memberConn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var n Notification
	require.NoError(t, memberConn.ReadJSON(&n))
	assert.Equal(t, "connected", n.Type)

	err := memberConn.ReadJSON(&n)
	assert.Error(t, err, "no broadcast should reach a member connection")
}
