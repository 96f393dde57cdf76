package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	return accountServiceFixtures{
		service: NewAccountService(AccountServiceParams{
			TxManager:   txManager,
			AccountRepo: accountRepo,
			Hasher:      hasher,
			Logger:      newDiscardLogger(),
		}),
		txManager:   txManager,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func TestAccountService_Get_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByID(ctx, int64(99)).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.Get(ctx, 99)

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_List(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	accounts := []*entity.Account{{ID: 1, Role: entity.RoleAdmin}, {ID: 2, Role: entity.RoleUser}}
	fx.accountRepo.EXPECT().List(ctx).Return(accounts, nil)

	got, err := fx.service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestAccountService_Create_DefaultsRoleToUser(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.accountRepo.EXPECT().EmailTaken(ctx, "luis@example.com", int64(0)).Return(false, nil)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
	repos.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			account.ID = 8
		}).
		Return(nil)

	account, err := fx.service.Create(ctx, usecase.CreateAccountInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), account.ID)
	assert.Equal(t, entity.RoleUser, account.Role)
	assert.Equal(t, "hashed", *account.PasswordHash)
}

func TestAccountService_Create_InvalidRole(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Create(context.Background(), usecase.CreateAccountInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "secret1",
		Role:     entity.Role("superuser"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAccountService_Create_EmailTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.accountRepo.EXPECT().EmailTaken(ctx, "luis@example.com", int64(0)).Return(true, nil)

	_, err := fx.service.Create(ctx, usecase.CreateAccountInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "secret1",
		Role:     entity.RoleAdmin,
	})

	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyExists)
}

func TestAccountService_Update_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	existing := &entity.Account{ID: 4, Name: "Old", Email: "old@example.com", PasswordHash: strPtr("hashed"), Role: entity.RoleUser}
	repos.accountRepo.EXPECT().FindByID(ctx, int64(4)).Return(existing, nil)
	repos.accountRepo.EXPECT().EmailTaken(ctx, "new@example.com", int64(4)).Return(false, nil)
	repos.accountRepo.EXPECT().
		Update(ctx, mock.MatchedBy(func(a *entity.Account) bool {
			return a.ID == 4 && a.Email == "new@example.com" && a.Role == entity.RoleAdmin
		})).
		Return(nil)

	account, err := fx.service.Update(ctx, 4, usecase.UpdateAccountInput{
		Name:  "New",
		Email: "new@example.com",
		Role:  entity.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, "New", account.Name)
	assert.Equal(t, "hashed", *account.PasswordHash)
}

func TestAccountService_Update_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.accountRepo.EXPECT().FindByID(ctx, int64(4)).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.Update(ctx, 4, usecase.UpdateAccountInput{Name: "New", Email: "new@example.com", Role: entity.RoleUser})

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_Update_EmailOwnedByAnotherAccount(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.accountRepo.EXPECT().FindByID(ctx, int64(4)).Return(&entity.Account{ID: 4}, nil)
	repos.accountRepo.EXPECT().EmailTaken(ctx, "other@example.com", int64(4)).Return(true, nil)

	_, err := fx.service.Update(ctx, 4, usecase.UpdateAccountInput{Name: "New", Email: "other@example.com", Role: entity.RoleUser})

	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyExists)
}

func TestAccountService_Delete_Self(t *testing.T) {
	fx := createTestAccountService(t)

	actor := entity.Identity{AccountID: 1, Email: "admin@example.com", Role: entity.RoleAdmin}
	_, err := fx.service.Delete(context.Background(), actor, 1)

	assert.ErrorIs(t, err, domainerrors.ErrSelfDeletion)
}

func TestAccountService_Delete_ReturnsRemovedAccount(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	target := &entity.Account{ID: 2, Name: "Luis", Email: "luis@example.com", Role: entity.RoleUser}
	repos.accountRepo.EXPECT().FindByID(ctx, int64(2)).Return(target, nil)
	repos.accountRepo.EXPECT().Delete(ctx, int64(2)).Return(nil)

	actor := entity.Identity{AccountID: 1, Role: entity.RoleAdmin}
	deleted, err := fx.service.Delete(ctx, actor, 2)

	require.NoError(t, err)
	assert.Same(t, target, deleted)
}

func TestAccountService_Delete_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.accountRepo.EXPECT().FindByID(ctx, int64(2)).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.Delete(ctx, entity.Identity{AccountID: 1, Role: entity.RoleAdmin}, 2)

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}
