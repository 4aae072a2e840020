package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

var userColumnNames = []string{"id", "login", "password_hash", "role", "area_id", "created_at"}

func TestUserRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Users()
	ctx := context.Background()
	area := int64(2)

	mock.ExpectQuery("FROM users WHERE login=").WithArgs("ana").WillReturnRows(
		pgxmockv3.NewRows(userColumnNames).AddRow(int64(1), "ana", "hash", "requester", &area, time.Now()))
	user, err := repo.GetByLogin(ctx, "ana")
	if err != nil || user.Role != "requester" || *user.AreaID != 2 {
		t.Fatalf("unexpected user %+v err=%v", user, err)
	}

	mock.ExpectQuery("FROM users WHERE login=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByLogin(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(userColumnNames).AddRow(int64(1), "root", "hash", "admin", nil, time.Now()))
	user, err = repo.GetByID(ctx, 1)
	if err != nil || user.AreaID != nil {
		t.Fatalf("unexpected user %+v err=%v", user, err)
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(ctx, 3); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestPermissionRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Permissions()
	ctx := context.Background()

	mock.ExpectQuery("FROM role_capabilities WHERE role=").WithArgs("approver").WillReturnRows(
		pgxmockv3.NewRows([]string{"capability"}).AddRow("orders.approve").AddRow("orders.update"))
	caps, err := repo.RoleCapabilities(ctx, "approver")
	if err != nil || len(caps) != 2 || caps[0] != model.CapabilityApproveOrder {
		t.Fatalf("unexpected caps %v err=%v", caps, err)
	}

	mock.ExpectQuery("FROM user_capabilities WHERE user_id=").WithArgs(int64(4)).WillReturnRows(
		pgxmockv3.NewRows([]string{"capability"}))
	caps, err = repo.DirectCapabilities(ctx, 4)
	if err != nil || len(caps) != 0 {
		t.Fatalf("expected no direct caps, got %v err=%v", caps, err)
	}

	mock.ExpectQuery("FROM user_capabilities WHERE user_id=").WithArgs(int64(5)).WillReturnError(errors.New("io"))
	if _, err := repo.DirectCapabilities(ctx, 5); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM role_capabilities WHERE role=").WithArgs("x").WillReturnRows(
		pgxmockv3.NewRows([]string{"capability"}).AddRow("a").RowError(0, errors.New("row err")))
	if _, err := repo.RoleCapabilities(ctx, "x"); err == nil {
		t.Fatal("expected row error")
	}

	mock.ExpectQuery("UNION").WithArgs("orders.approve").WillReturnRows(
		pgxmockv3.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(9)))
	ids, err := repo.UsersWithCapability(ctx, model.CapabilityApproveOrder)
	if err != nil || len(ids) != 2 || ids[1] != 9 {
		t.Fatalf("unexpected ids %v err=%v", ids, err)
	}

	mock.ExpectQuery("UNION").WithArgs("orders.approve").WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow("bad"))
	if _, err := repo.UsersWithCapability(ctx, model.CapabilityApproveOrder); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestNotificationRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Notifications()
	ctx := context.Background()
	now := time.Now()

	if stored, err := repo.CreateBatch(ctx, nil); err != nil || stored != nil {
		t.Fatalf("expected no-op for empty batch, got %v err=%v", stored, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO notifications").WithArgs(int64(3), model.NotificationOrderCreated, "new order", "/api/orders/1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectQuery("INSERT INTO notifications").WithArgs(int64(9), model.NotificationOrderCreated, "new order", "/api/orders/1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(2), now))
	mock.ExpectCommit()
	stored, err := repo.CreateBatch(ctx, []model.Notification{
		{UserID: 3, Type: model.NotificationOrderCreated, Message: "new order", Link: "/api/orders/1"},
		{UserID: 9, Type: model.NotificationOrderCreated, Message: "new order", Link: "/api/orders/1"},
	})
	if err != nil || len(stored) != 2 || stored[1].ID != 2 {
		t.Fatalf("unexpected result %v err=%v", stored, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO notifications").WithArgs(int64(1), model.NotificationType(""), "", "").WillReturnError(errors.New("fk"))
	mock.ExpectRollback()
	if _, err := repo.CreateBatch(ctx, []model.Notification{{UserID: 1}}); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM notifications WHERE user_id=").WithArgs(int64(3), defaultListLimit).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "user_id", "type", "message", "link", "read", "created_at"}).
			AddRow(int64(1), int64(3), model.NotificationOrderCreated, "new order", "/api/orders/1", false, now))
	list, err := repo.ListByUser(ctx, 3, 0)
	if err != nil || len(list) != 1 || list[0].Read {
		t.Fatalf("unexpected list %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM notifications WHERE user_id=").WithArgs(int64(3), 5).WillReturnError(errors.New("io"))
	if _, err := repo.ListByUser(ctx, 3, 5); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
