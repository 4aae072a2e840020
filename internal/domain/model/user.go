package model

import "time"

// User is an organisational account able to submit or review orders.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         string
	AreaID       *int64
	CreatedAt    time.Time
}

// Identity is the caller on whose behalf a request executes.
type Identity struct {
	UserID int64
	Role   string
	AreaID *int64
}

// Empty reports whether no caller is attached.
func (i Identity) Empty() bool {
	return i.UserID == 0 || i.Role == ""
}

// IdentityOf derives request identity from a stored user.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, AreaID: u.AreaID}
}

// Capability is a named permission key.
type Capability string

const (
	CapabilityCreateOrders Capability = "orders.create"
	CapabilityUpdateOrders Capability = "orders.update"
	CapabilityApproveOrder Capability = "orders.approve"
	CapabilityDeleteOrders Capability = "orders.delete"
	CapabilityCrossArea    Capability = "orders.cross_area"
)
