package model

import "time"

// NotificationTypeOrderUpdate marks notifications produced by status transitions.
const NotificationTypeOrderUpdate = "order_update"

// Notification is an in-app message that doubles as an outbox row: it is written
// in the same transaction as the status change and delivered asynchronously.
type Notification struct {
	ID            string
	UserID        string
	OrderID       string
	Title         string
	Message       string
	Type          string
	OldStatus     OrderStatus
	NewStatus     OrderStatus
	IsRead        bool
	Delivered     bool
	Attempts      int
	LastAttemptAt *time.Time
	CreatedAt     time.Time
}
