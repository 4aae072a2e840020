// Package datascope builds SQL predicates that restrict rows to the caller.
//
// Every order query goes through a Filter, so row visibility holds even on
// connections that bypass the database's own row level policies (superusers,
// table owners without FORCE).
package datascope

import (
	"strconv"
	"strings"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// Filter accumulates AND-ed conditions with positional pgx arguments.
type Filter struct {
	conds []string
	args  []any
}

// ForOwner starts a filter scoped to identity. ownerColumn holds the owning
// user id; elevated roles (roles.sees_all_orders) see every row and an empty
// identity sees none.
func ForOwner(identity model.Identity, ownerColumn string) *Filter {
	f := &Filter{}
	if identity.Empty() {
		f.conds = append(f.conds, "1 = 0")
		return f
	}
	user := f.Arg(identity.UserID)
	role := f.Arg(identity.Role)
	f.conds = append(f.conds, "("+ownerColumn+" = "+user+
		" OR EXISTS (SELECT 1 FROM roles r WHERE r.name = "+role+" AND r.sees_all_orders))")
	return f
}

// Arg registers a value and returns its placeholder.
func (f *Filter) Arg(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

// Where adds a condition. Each '?' in cond is bound to the next value.
func (f *Filter) Where(cond string, values ...any) *Filter {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(values) {
			b.WriteString(f.Arg(values[i]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	f.conds = append(f.conds, b.String())
	return f
}

// SQL renders the WHERE clause, including the keyword.
func (f *Filter) SQL() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns bound values in placeholder order.
func (f *Filter) Args() []any {
	return f.args
}
