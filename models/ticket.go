package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TicketStatusOpen     = "open"
	TicketStatusAnswered = "answered"
	TicketStatusClosed   = "closed"
)

type TicketMessage struct {
	SenderID  primitive.ObjectID `json:"senderId" bson:"senderId"`
	FromAdmin bool               `json:"fromAdmin" bson:"fromAdmin"`
	Body      string             `json:"body" bson:"body"`
	SentAt    time.Time          `json:"sentAt" bson:"sentAt"`
}

type SupportTicket struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Number    string             `json:"number" bson:"number"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Subject   string             `json:"subject" bson:"subject"`
	Status    string             `json:"status" bson:"status"` // "open", "answered", "closed"
	Messages  []TicketMessage    `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OpenTicketRequest is the payload for creating a ticket
type OpenTicketRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// TicketReplyRequest is the payload for replying to a ticket
type TicketReplyRequest struct {
	Body string `json:"body" validate:"required"`
}
