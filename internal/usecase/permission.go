package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// CapabilityChecker answers whether a user holds a capability.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID int64, capability model.Capability) (bool, error)
}

// Resolver computes effective capabilities from role and direct grants.
// Nothing is cached, so edits to roles or grants apply to the next check.
type Resolver struct {
	users repository.UserRepository
	perms repository.PermissionRepository
}

// NewResolver constructs Resolver.
func NewResolver(users repository.UserRepository, perms repository.PermissionRepository) *Resolver {
	return &Resolver{users: users, perms: perms}
}

// EffectiveCapabilities returns role capabilities united with direct grants.
func (r *Resolver) EffectiveCapabilities(ctx context.Context, userID int64) (map[model.Capability]struct{}, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	fromRole, err := r.perms.RoleCapabilities(ctx, user.Role)
	if err != nil {
		return nil, fmt.Errorf("role capabilities: %w", err)
	}
	direct, err := r.perms.DirectCapabilities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("direct capabilities: %w", err)
	}
	return unionCapabilities(fromRole, direct), nil
}

// HasCapability reports whether userID holds capability.
func (r *Resolver) HasCapability(ctx context.Context, userID int64, capability model.Capability) (bool, error) {
	caps, err := r.EffectiveCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := caps[capability]
	return ok, nil
}

// UsersWithCapability lists ids holding capability through either source.
func (r *Resolver) UsersWithCapability(ctx context.Context, capability model.Capability) ([]int64, error) {
	return r.perms.UsersWithCapability(ctx, capability)
}

func unionCapabilities(sets ...[]model.Capability) map[model.Capability]struct{} {
	out := make(map[model.Capability]struct{})
	for _, set := range sets {
		for _, c := range set {
			out[c] = struct{}{}
		}
	}
	return out
}
