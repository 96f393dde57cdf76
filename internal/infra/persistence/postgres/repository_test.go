package postgres

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func strPtr(s string) *string { return &s }

func newCatalogItem(name string, active bool) *entity.CatalogItem {
	return &entity.CatalogItem{
		Name:        name,
		Description: "Descripción suficientemente larga",
		Price:       150000,
		InStock:     true,
		Icon:        "bi-cloud",
		Active:      active,
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := &entity.Account{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: strPtr("$2a$10$hash"),
		Role:         entity.RoleUser,
	}
	require.NoError(t, repo.Create(ctx, account))
	assert.NotZero(t, account.ID)

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.True(t, byEmail.CanAuthenticate())

	_, err = repo.FindByEmail(ctx, "ANA@example.com")
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound), "email lookups are case-sensitive")

	_, err = repo.FindByID(ctx, account.ID+100)
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &entity.Account{Name: "Ana", Email: "ana@example.com", Role: entity.RoleUser}))

	err := repo.Create(ctx, &entity.Account{Name: "Otra", Email: "ana@example.com", Role: entity.RoleUser})
	assert.True(t, errors.Is(err, repository.ErrDuplicateEmail))

	taken, err := repo.EmailTaken(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestAccountRepository_UpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := &entity.Account{Name: "Ana", Email: "ana@example.com", PasswordHash: strPtr("hash"), Role: entity.RoleUser}
	require.NoError(t, repo.Create(ctx, account))

	account.Name = "Ana María"
	account.Role = entity.RoleAdmin
	account.PasswordHash = nil
	require.NoError(t, repo.Update(ctx, account))

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", stored.Name)
	assert.Equal(t, entity.RoleAdmin, stored.Role)
	require.NotNil(t, stored.PasswordHash)
	assert.Equal(t, "hash", *stored.PasswordHash)

	taken, err := repo.EmailTaken(ctx, "ana@example.com", account.ID)
	require.NoError(t, err)
	assert.False(t, taken, "an account does not collide with itself")

	admins, err := repo.CountByRole(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)
}

func TestAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := &entity.Account{Name: "Ana", Email: "ana@example.com", Role: entity.RoleUser}
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, repo.Delete(ctx, account.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, account.ID), repository.ErrAccountNotFound))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestCatalogRepository_CaseInsensitiveName(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newCatalogItem("Servicio de nube", true)))

	taken, err := repo.NameTaken(ctx, "SERVICIO DE NUBE", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	err = repo.Create(ctx, newCatalogItem("SERVICIO DE NUBE", false))
	assert.True(t, errors.Is(err, repository.ErrDuplicateCatalogName))
}

func TestCatalogRepository_ActiveFiltering(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(newTestDB(t))

	visible := newCatalogItem("Hosting web", true)
	hidden := newCatalogItem("Servidor dedicado", false)
	require.NoError(t, repo.Create(ctx, visible))
	require.NoError(t, repo.Create(ctx, hidden))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, visible.ID, active[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)

	_, err = repo.FindActiveByID(ctx, hidden.ID)
	assert.True(t, errors.Is(err, repository.ErrCatalogItemNotFound))

	found, err := repo.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCatalogRepository_UpdateRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCatalogRepository(db).(*catalogRepository)

	item := newCatalogItem("Hosting web", true)
	require.NoError(t, repo.Create(ctx, item))
	assert.False(t, item.CreatedAt.IsZero())

	later := time.Now().Add(time.Hour)
	repo.now = func() time.Time { return later }

	item.Price = 99.5
	item.Active = false
	require.NoError(t, repo.Update(ctx, item))

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 99.5, stored.Price, 0.001)
	assert.False(t, stored.Active)
	assert.WithinDuration(t, later, stored.UpdatedAt, time.Second)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestCatalogRepository_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(newTestDB(t))

	missing := newCatalogItem("Inexistente", true)
	missing.ID = 999

	assert.True(t, errors.Is(repo.Update(ctx, missing), repository.ErrCatalogItemNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, 999), repository.ErrCatalogItemNotFound))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTransactionManager(db)
	sentinel := errors.New("abort")

	err := txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.NewCatalogRepository().Create(ctx, newCatalogItem("Hosting web", true)); err != nil {
			return err
		}

		return sentinel
	})
	assert.True(t, errors.Is(err, sentinel))

	count, err := NewCatalogRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
