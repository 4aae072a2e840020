package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/polkiloo/procurement/internal/datascope"
	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

const orderColumns = `o.id, o.requester_id, o.budget_code_id, o.amount, o.currency, o.product, o.quantity,
       o.unit_price, o.supplier, o.delivery_date, o.priority, o.status, o.created_at, o.updated_at, o.updated_by`

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type orderStore struct {
	db       querier
	identity model.Identity
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.RequesterID, &o.BudgetCodeID, &o.Amount, &o.Currency, &o.Product, &o.Quantity,
		&o.UnitPrice, &o.Supplier, &o.DeliveryDate, &o.Priority, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, constraintError(err)
	}
	return &o, nil
}

// constraintError maps schema constraint violations onto the domain taxonomy.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", domainErrors.ErrNotFound, pgErr.ConstraintName)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &domainErrors.ValidationError{Fields: map[string]string{pgErr.ConstraintName: "violates constraint"}}
	}
	return err
}

func (r *orderStore) Insert(ctx context.Context, requesterID int64, f model.OrderFields, status model.OrderStatus) (*model.Order, error) {
	const query = `INSERT INTO orders AS o (requester_id, budget_code_id, amount, currency, product, quantity,
                       unit_price, supplier, delivery_date, priority, status, updated_by)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $1)
                   RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, requesterID, f.BudgetCodeID, f.Amount, f.Currency, f.Product,
		f.Quantity, f.UnitPrice, f.Supplier, f.DeliveryDate, f.Priority, status))
}

func (r *orderStore) Get(ctx context.Context, id int64) (*model.Order, error) {
	f := datascope.ForOwner(r.identity, "o.requester_id").Where("o.id = ?", id)
	return scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders o"+f.SQL(), f.Args()...))
}

func (r *orderStore) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	f := datascope.ForOwner(r.identity, "o.requester_id").Where("o.id = ?", id)
	return scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders o"+f.SQL()+" FOR UPDATE", f.Args()...))
}

func (r *orderStore) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	f := datascope.ForOwner(r.identity, "o.requester_id")
	if filter.Status != nil {
		f.Where("o.status = ?", *filter.Status)
	}
	if filter.From != nil {
		f.Where("o.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		f.Where("o.created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		p := "%" + likeEscaper.Replace(filter.Search) + "%"
		f.Where(`(o.product ILIKE ? ESCAPE '\' OR o.supplier ILIKE ? ESCAPE '\'
                   OR b.name ILIKE ? ESCAPE '\' OR u.login ILIKE ? ESCAPE '\')`, p, p, p, p)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + orderColumns + `
                   FROM orders o
                   JOIN budget_codes b ON b.id = o.budget_code_id
                   JOIN users u ON u.id = o.requester_id` + f.SQL() +
		fmt.Sprintf(" ORDER BY o.created_at DESC, o.id DESC LIMIT %s OFFSET %s", f.Arg(limit), f.Arg(offset))

	rows, err := r.db.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderStore) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus, actorID int64) (*model.Order, error) {
	f := datascope.ForOwner(r.identity, "o.requester_id")
	set := fmt.Sprintf("status = %s, updated_by = %s, updated_at = NOW()", f.Arg(status), f.Arg(actorID))
	f.Where("o.id = ?", id)
	return scanOrder(r.db.QueryRow(ctx, "UPDATE orders o SET "+set+f.SQL()+" RETURNING "+orderColumns, f.Args()...))
}

func (r *orderStore) UpdateFields(ctx context.Context, id int64, fields model.OrderFields, actorID int64) (*model.Order, error) {
	f := datascope.ForOwner(r.identity, "o.requester_id")
	set := fmt.Sprintf(`budget_code_id = %s, amount = %s, currency = %s, product = %s, quantity = %s,
                   unit_price = %s, supplier = %s, delivery_date = %s, priority = %s, updated_by = %s, updated_at = NOW()`,
		f.Arg(fields.BudgetCodeID), f.Arg(fields.Amount), f.Arg(fields.Currency), f.Arg(fields.Product),
		f.Arg(fields.Quantity), f.Arg(fields.UnitPrice), f.Arg(fields.Supplier), f.Arg(fields.DeliveryDate),
		f.Arg(fields.Priority), f.Arg(actorID))
	f.Where("o.id = ?", id)
	return scanOrder(r.db.QueryRow(ctx, "UPDATE orders o SET "+set+f.SQL()+" RETURNING "+orderColumns, f.Args()...))
}

func (r *orderStore) Delete(ctx context.Context, id int64) error {
	f := datascope.ForOwner(r.identity, "o.requester_id").Where("o.id = ?", id)
	tag, err := r.db.Exec(ctx, "DELETE FROM orders o"+f.SQL(), f.Args()...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
