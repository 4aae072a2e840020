package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// PermissionRepository reads the two capability sources.
type PermissionRepository interface {
	RoleCapabilities(ctx context.Context, role string) ([]model.Capability, error)
	DirectCapabilities(ctx context.Context, userID int64) ([]model.Capability, error)
	// UsersWithCapability returns ids holding capability from either source.
	UsersWithCapability(ctx context.Context, capability model.Capability) ([]int64, error)
}
