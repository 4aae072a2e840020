package test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// MemoryStore is an in-memory stand-in for the Postgres storage. Scoped
// transactions are serialised and roll back to a snapshot on error.
type MemoryStore struct {
	txMu sync.Mutex

	mu            sync.Mutex
	budgets       map[int64]model.BudgetCode
	areaCodes     map[int64]map[int64]struct{}
	orders        map[int64]model.Order
	nextOrder     int64
	users         map[int64]*model.User
	elevated      map[string]struct{}
	roleCaps      map[string][]model.Capability
	directCaps    map[int64][]model.Capability
	notifications []model.Notification
	nextNote      int64
	clock         time.Time

	// Err fails every WithinScope call before fn runs.
	Err error
	// LedgerErr fails every ledger mutation inside a transaction.
	LedgerErr error
	// UserErr fails user and permission reads.
	UserErr error
	// NotifyErr fails CreateBatch.
	NotifyErr error
}

// NewMemoryStore constructs an empty store. Roles named in elevated see every order.
func NewMemoryStore(elevated ...string) *MemoryStore {
	s := &MemoryStore{
		budgets:    make(map[int64]model.BudgetCode),
		areaCodes:  make(map[int64]map[int64]struct{}),
		orders:     make(map[int64]model.Order),
		users:      make(map[int64]*model.User),
		elevated:   make(map[string]struct{}),
		roleCaps:   make(map[string][]model.Capability),
		directCaps: make(map[int64][]model.Capability),
		clock:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, role := range elevated {
		s.elevated[role] = struct{}{}
	}
	return s
}

// AddBudgetCode seeds a budget code with equal total and available amounts.
func (s *MemoryStore) AddBudgetCode(id int64, allocation decimal.Decimal, areas ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[id] = model.BudgetCode{ID: id, Name: "code", TotalAllocation: allocation, AvailableBalance: allocation}
	for _, area := range areas {
		if s.areaCodes[area] == nil {
			s.areaCodes[area] = make(map[int64]struct{})
		}
		s.areaCodes[area][id] = struct{}{}
	}
}

// Available returns the current available balance of a budget code.
func (s *MemoryStore) Available(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets[id].AvailableBalance
}

// AddUser seeds a user.
func (s *MemoryStore) AddUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// GrantRole sets the capabilities a role carries.
func (s *MemoryStore) GrantRole(role string, caps ...model.Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleCaps[role] = caps
}

// GrantUser adds direct capabilities to a user.
func (s *MemoryStore) GrantUser(userID int64, caps ...model.Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directCaps[userID] = append(s.directCaps[userID], caps...)
}

// PutOrder stores order as is, bypassing the ledger.
func (s *MemoryStore) PutOrder(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	if o.ID > s.nextOrder {
		s.nextOrder = o.ID
	}
}

// Order returns a stored order regardless of visibility.
func (s *MemoryStore) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Notifications returns persisted notifications.
func (s *MemoryStore) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.notifications...)
}

// WithinScope implements repository.Transactor.
func (s *MemoryStore) WithinScope(ctx context.Context, identity model.Identity, fn func(ctx context.Context, tx repository.Tx) error) error {
	if s.Err != nil {
		return domainErrors.Transaction(s.Err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	budgets := make(map[int64]model.BudgetCode, len(s.budgets))
	for k, v := range s.budgets {
		budgets[k] = v
	}
	orders := make(map[int64]model.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	next := s.nextOrder
	s.mu.Unlock()

	if err := fn(ctx, &memTx{store: s, identity: identity}); err != nil {
		s.mu.Lock()
		s.budgets, s.orders, s.nextOrder = budgets, orders, next
		s.mu.Unlock()
		if domainErrors.IsDomain(err) {
			return err
		}
		return domainErrors.Transaction(err)
	}
	return nil
}

type memTx struct {
	store    *MemoryStore
	identity model.Identity
}

func (t *memTx) Orders() repository.OrderStore   { return t }
func (t *memTx) Ledger() repository.BudgetLedger { return memLedger{t} }
func (t *memTx) Areas() repository.AreaStore     { return memAreas{t.store} }

func (t *memTx) visible(o model.Order) bool {
	if t.identity.Empty() {
		return false
	}
	if _, ok := t.store.elevated[t.identity.Role]; ok {
		return true
	}
	return o.RequesterID == t.identity.UserID
}

func (t *memTx) Insert(_ context.Context, requesterID int64, fields model.OrderFields, status model.OrderStatus) (*model.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.identity.Empty() || requesterID != t.identity.UserID {
		return nil, errors.New("row violates orders_scope policy")
	}
	s.nextOrder++
	s.clock = s.clock.Add(time.Minute)
	o := model.Order{
		ID:           s.nextOrder,
		RequesterID:  requesterID,
		BudgetCodeID: fields.BudgetCodeID,
		Amount:       fields.Amount,
		Currency:     fields.Currency,
		Product:      fields.Product,
		Quantity:     fields.Quantity,
		UnitPrice:    fields.UnitPrice,
		Supplier:     fields.Supplier,
		DeliveryDate: fields.DeliveryDate,
		Priority:     fields.Priority,
		Status:       status,
		CreatedAt:    s.clock,
		UpdatedAt:    s.clock,
		UpdatedBy:    &requesterID,
	}
	s.orders[o.ID] = o
	return &o, nil
}

func (t *memTx) Get(_ context.Context, id int64) (*model.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || !t.visible(o) {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

func (t *memTx) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return t.Get(ctx, id)
}

func (t *memTx) List(_ context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	out := make([]model.Order, 0)
	for _, o := range s.orders {
		if !t.visible(o) {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.From != nil && o.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !o.CreatedAt.Before(*filter.To) {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Offset >= len(out) {
		return []model.Order{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesSearch(o model.Order, search string) bool {
	if strings.Contains(strings.ToLower(o.Product), search) {
		return true
	}
	return o.Supplier != nil && strings.Contains(strings.ToLower(*o.Supplier), search)
}

func (t *memTx) UpdateStatus(_ context.Context, id int64, status model.OrderStatus, actorID int64) (*model.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || !t.visible(o) {
		return nil, domainErrors.ErrNotFound
	}
	o.Status = status
	o.UpdatedBy = &actorID
	o.UpdatedAt = o.UpdatedAt.Add(time.Second)
	s.orders[id] = o
	return &o, nil
}

func (t *memTx) UpdateFields(_ context.Context, id int64, fields model.OrderFields, actorID int64) (*model.Order, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || !t.visible(o) {
		return nil, domainErrors.ErrNotFound
	}
	o.BudgetCodeID = fields.BudgetCodeID
	o.Amount = fields.Amount
	o.Currency = fields.Currency
	o.Product = fields.Product
	o.Quantity = fields.Quantity
	o.UnitPrice = fields.UnitPrice
	o.Supplier = fields.Supplier
	o.DeliveryDate = fields.DeliveryDate
	o.Priority = fields.Priority
	o.UpdatedBy = &actorID
	s.orders[id] = o
	return &o, nil
}

func (t *memTx) Delete(_ context.Context, id int64) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || !t.visible(o) {
		return domainErrors.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type memLedger struct{ tx *memTx }

func (l memLedger) move(id int64, delta decimal.Decimal, ceiling bool) error {
	s := l.tx.store
	if s.LedgerErr != nil {
		return s.LedgerErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.budgets[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	next := code.AvailableBalance.Add(delta)
	if ceiling && next.IsNegative() {
		return &domainErrors.BudgetExceededError{BudgetCodeID: id, Requested: delta.Neg(), Available: code.AvailableBalance}
	}
	code.AvailableBalance = next
	s.budgets[id] = code
	return nil
}

func (l memLedger) Debit(_ context.Context, id int64, amount decimal.Decimal) error {
	return l.move(id, amount.Neg(), false)
}

func (l memLedger) DebitWithinCeiling(_ context.Context, id int64, amount decimal.Decimal) error {
	return l.move(id, amount.Neg(), true)
}

func (l memLedger) Credit(_ context.Context, id int64, amount decimal.Decimal) error {
	return l.move(id, amount, false)
}

func (l memLedger) LockBalance(ctx context.Context, id int64) (*model.BudgetBalance, error) {
	return l.Balance(ctx, id)
}

func (l memLedger) Balance(_ context.Context, id int64) (*model.BudgetBalance, error) {
	s := l.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.budgets[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &model.BudgetBalance{
		BudgetCodeID:    id,
		Name:            code.Name,
		TotalAllocation: code.TotalAllocation,
		Available:       code.AvailableBalance,
	}, nil
}

type memAreas struct{ store *MemoryStore }

func (a memAreas) HasBudgetCode(_ context.Context, areaID, budgetCodeID int64) (bool, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	_, ok := a.store.areaCodes[areaID][budgetCodeID]
	return ok, nil
}

// GetByLogin implements repository.UserRepository.
func (s *MemoryStore) GetByLogin(_ context.Context, login string) (*model.User, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID implements repository.UserRepository.
func (s *MemoryStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// RoleCapabilities implements repository.PermissionRepository.
func (s *MemoryStore) RoleCapabilities(_ context.Context, role string) ([]model.Capability, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Capability(nil), s.roleCaps[role]...), nil
}

// DirectCapabilities implements repository.PermissionRepository.
func (s *MemoryStore) DirectCapabilities(_ context.Context, userID int64) ([]model.Capability, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Capability(nil), s.directCaps[userID]...), nil
}

// UsersWithCapability implements repository.PermissionRepository.
func (s *MemoryStore) UsersWithCapability(_ context.Context, capability model.Capability) ([]int64, error) {
	if s.UserErr != nil {
		return nil, s.UserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0)
	for id, u := range s.users {
		if hasCapability(s.roleCaps[u.Role], capability) || hasCapability(s.directCaps[id], capability) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func hasCapability(set []model.Capability, c model.Capability) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

// CreateBatch implements repository.NotificationRepository.
func (s *MemoryStore) CreateBatch(_ context.Context, items []model.Notification) ([]model.Notification, error) {
	if s.NotifyErr != nil {
		return nil, s.NotifyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, 0, len(items))
	for _, n := range items {
		s.nextNote++
		n.ID = s.nextNote
		s.clock = s.clock.Add(time.Second)
		n.CreatedAt = s.clock
		s.notifications = append(s.notifications, n)
		out = append(out, n)
	}
	return out, nil
}

// ListByUser implements repository.NotificationRepository.
func (s *MemoryStore) ListByUser(_ context.Context, userID int64, limit int) ([]model.Notification, error) {
	if s.NotifyErr != nil {
		return nil, s.NotifyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			out = append(out, s.notifications[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var (
	_ repository.Transactor             = (*MemoryStore)(nil)
	_ repository.UserRepository         = (*MemoryStore)(nil)
	_ repository.PermissionRepository   = (*MemoryStore)(nil)
	_ repository.NotificationRepository = (*MemoryStore)(nil)
)
