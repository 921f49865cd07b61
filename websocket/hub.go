package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed over the hub
const (
	NotificationTypeWithdrawalRequest = "withdrawal_request"
	NotificationTypeWithdrawalResult  = "withdrawal_result"
	NotificationTypeRankAchieved      = "rank_achieved"
	NotificationTypeTicketUpdate      = "ticket_update"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID  primitive.ObjectID
	IsAdmin bool
	Conn    *websocket.Conn

	// Serializes writes; gorilla/websocket does not support concurrent
	// writers on one connection.
	writeMu sync.Mutex
}

func (c *Client) send(notification Notification) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(notification)
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.send(notification)
}

// BroadcastToAdmins sends a message to every connected admin client
func (h *Hub) BroadcastToAdmins(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.IsAdmin {
			client.send(notification)
		}
	}
}

// NotifyWithdrawalRequest tells admins a new withdrawal is waiting
func (h *Hub) NotifyWithdrawalRequest(withdrawalData interface{}) {
	h.BroadcastToAdmins(Notification{
		Type:    NotificationTypeWithdrawalRequest,
		Message: "New withdrawal request received",
		Data:    withdrawalData,
	})
}

// NotifyWithdrawalResult tells a member their withdrawal was processed
func (h *Hub) NotifyWithdrawalResult(userID primitive.ObjectID, withdrawalData interface{}) error {
	return h.SendToUser(userID, Notification{
		Type:    NotificationTypeWithdrawalResult,
		Message: "Your withdrawal request has been processed",
		Data:    withdrawalData,
	})
}

// NotifyTicketUpdate tells a member their support ticket changed
func (h *Hub) NotifyTicketUpdate(userID primitive.ObjectID, ticketData interface{}) error {
	return h.SendToUser(userID, Notification{
		Type:    NotificationTypeTicketUpdate,
		Message: "Your support ticket has been updated",
		Data:    ticketData,
	})
}
