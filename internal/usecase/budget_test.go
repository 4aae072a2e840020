package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	testhelpers "github.com/polkiloo/procurement/internal/test"
)

func TestBudgetUseCaseBalance(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	store.AddBudgetCode(1, decimal.NewFromInt(1000))
	uc := NewBudgetUseCase(store)
	caller := model.Identity{UserID: 1, Role: "requester"}

	balance, err := uc.Balance(context.Background(), caller, 1)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(1000)))
	assert.True(t, balance.Committed().IsZero())

	_, err = uc.Balance(context.Background(), caller, 2)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	_, err = uc.Balance(context.Background(), model.Identity{}, 1)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	store.Err = errors.New("pool closed")
	_, err = uc.Balance(context.Background(), caller, 1)
	assert.ErrorIs(t, err, domainErrors.ErrTransactionFailure)
}

func TestNotificationUseCaseList(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	_, err := store.CreateBatch(context.Background(), []model.Notification{
		{UserID: 1, Type: model.NotificationOrderCreated, Message: "first"},
		{UserID: 2, Type: model.NotificationOrderCreated, Message: "other"},
		{UserID: 1, Type: model.NotificationOrderStatusChanged, Message: "second"},
	})
	require.NoError(t, err)

	items, err := NewNotificationUseCase(store).List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Message)
	assert.Equal(t, "first", items[1].Message)
}
