package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/utils"
	"github.com/globerise/globerise_backend/websocket"
)

// TicketController handles support tickets for members and admins
type TicketController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

func NewTicketController(db *mongo.Database, hub *websocket.Hub) *TicketController {
	return &TicketController{DB: db, Hub: hub}
}

// OpenTicket creates a new support ticket with an initial message
func (tc *TicketController) OpenTicket(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	var req models.OpenTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	ticket := models.SupportTicket{
		Number:  ticketNumber(),
		UserID:  userID,
		Subject: utils.SanitizeInput(req.Subject),
		Status:  models.TicketStatusOpen,
		Messages: []models.TicketMessage{{
			SenderID: userID,
			Body:     utils.SanitizeInput(req.Body),
			SentAt:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := tc.DB.Collection("tickets").InsertOne(ctx, ticket)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create ticket",
		})
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ticket.ID = oid
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Ticket created successfully",
		Data:    ticket,
	})
}

func ticketNumber() string {
	short := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("TKT-%s", strings.ToUpper(short))
}

// GetMyTickets lists the authenticated member's tickets
func (tc *TicketController) GetMyTickets(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	return tc.listTickets(c, bson.M{"userId": userID})
}

// GetAllTickets lists every ticket for the support back office
func (tc *TicketController) GetAllTickets(c echo.Context) error {
	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" && status != "all" {
		filter["status"] = status
	}
	return tc.listTickets(c, filter)
}

func (tc *TicketController) listTickets(c echo.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cursor, err := tc.DB.Collection("tickets").Find(ctx, filter, options.Find().SetSort(bson.M{"updatedAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch tickets",
		})
	}

	var tickets []models.SupportTicket
	if err := cursor.All(ctx, &tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode tickets",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tickets retrieved successfully",
		Data:    tickets,
	})
}

// ReplyToTicket appends a message; admin replies flip the status to answered
func (tc *TicketController) ReplyToTicket(c echo.Context) error {
	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid ticket ID",
		})
	}

	senderID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	var req models.TicketReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	userType := middleware.ExtractUserType(c)
	fromAdmin := userType == "admin" || userType == "super_admin"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var ticket models.SupportTicket
	err = tc.DB.Collection("tickets").FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Ticket not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch ticket",
		})
	}

	// Members may only reply to their own tickets
	if !fromAdmin && ticket.UserID != senderID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	if ticket.Status == models.TicketStatusClosed {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Ticket is closed",
		})
	}

	message := models.TicketMessage{
		SenderID:  senderID,
		FromAdmin: fromAdmin,
		Body:      utils.SanitizeInput(req.Body),
		SentAt:    time.Now(),
	}

	status := models.TicketStatusOpen
	if fromAdmin {
		status = models.TicketStatusAnswered
	}

	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"status": status, "updatedAt": time.Now()},
	}
	if _, err := tc.DB.Collection("tickets").UpdateOne(ctx, bson.M{"_id": ticketID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save reply",
		})
	}

	if fromAdmin {
		if err := tc.Hub.NotifyTicketUpdate(ticket.UserID, map[string]interface{}{
			"ticketId": ticketID.Hex(),
			"number":   ticket.Number,
			"status":   status,
		}); err != nil {
			log.Printf("User %s not connected for ticket notification", ticket.UserID.Hex())
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reply added successfully",
	})
}

// CloseTicket marks a ticket closed
func (tc *TicketController) CloseTicket(c echo.Context) error {
	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid ticket ID",
		})
	}

	callerID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	userType := middleware.ExtractUserType(c)
	isAdmin := userType == "admin" || userType == "super_admin"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Members may only close their own tickets
	filter := bson.M{"_id": ticketID}
	if !isAdmin {
		filter["userId"] = callerID
	}

	result, err := tc.DB.Collection("tickets").UpdateOne(ctx,
		filter,
		bson.M{"$set": bson.M{"status": models.TicketStatusClosed, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to close ticket",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Ticket not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Ticket closed successfully",
	})
}
