package postgres

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

type permissionRepository struct {
	db querier
}

func (r *permissionRepository) RoleCapabilities(ctx context.Context, role string) ([]model.Capability, error) {
	const query = `SELECT capability FROM role_capabilities WHERE role=$1 ORDER BY capability`
	return r.capabilities(ctx, query, role)
}

func (r *permissionRepository) DirectCapabilities(ctx context.Context, userID int64) ([]model.Capability, error) {
	const query = `SELECT capability FROM user_capabilities WHERE user_id=$1 ORDER BY capability`
	return r.capabilities(ctx, query, userID)
}

func (r *permissionRepository) capabilities(ctx context.Context, query string, arg any) ([]model.Capability, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	keys, err := collectStrings(rows)
	if err != nil {
		return nil, err
	}
	result := make([]model.Capability, len(keys))
	for i, k := range keys {
		result[i] = model.Capability(k)
	}
	return result, nil
}

func (r *permissionRepository) UsersWithCapability(ctx context.Context, capability model.Capability) ([]int64, error) {
	const query = `SELECT u.id FROM users u JOIN role_capabilities rc ON rc.role = u.role WHERE rc.capability = $1
                   UNION
                   SELECT uc.user_id FROM user_capabilities uc WHERE uc.capability = $1
                   ORDER BY 1`
	rows, err := r.db.Query(ctx, query, string(capability))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
