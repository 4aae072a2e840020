package model

import "time"

// NotificationType names the lifecycle event a notification reports.
type NotificationType string

const (
	NotificationOrderCreated       NotificationType = "order_created"
	NotificationOrderStatusChanged NotificationType = "order_status_changed"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        int64
	UserID    int64
	Type      NotificationType
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}

// OrderEvent describes a committed lifecycle change handed to the emitter.
type OrderEvent struct {
	Type       NotificationType
	Order      Order
	PrevStatus OrderStatus
	ActorID    int64
	Comment    string
	OccurredAt time.Time
}
