package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogServiceFixtures struct {
	service     usecase.CatalogUsecase
	txManager   *mockRepo.MockTransactionManager
	catalogRepo *mockRepo.MockCatalogRepository
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	catalogRepo := mockRepo.NewMockCatalogRepository(t)

	return catalogServiceFixtures{
		service: NewCatalogService(CatalogServiceParams{
			TxManager:   txManager,
			CatalogRepo: catalogRepo,
			Logger:      newDiscardLogger(),
		}),
		txManager:   txManager,
		catalogRepo: catalogRepo,
	}
}

func TestCatalogService_GetActive_HiddenItemIsNotFound(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()

	fx.catalogRepo.EXPECT().FindActiveByID(ctx, int64(3)).Return(nil, repository.ErrCatalogItemNotFound)

	_, err := fx.service.GetActive(ctx, 3)

	assert.ErrorIs(t, err, domainerrors.ErrCatalogItemNotFound)
}

func TestCatalogService_Create_TrimsAndActivates(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.catalogRepo.EXPECT().NameTaken(ctx, "Hosting", int64(0)).Return(false, nil)
	repos.catalogRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.CatalogItem")).
		Run(func(_ context.Context, item *entity.CatalogItem) {
			item.ID = 21
		}).
		Return(nil)

	item, err := fx.service.Create(ctx, usecase.CatalogItemInput{
		Name:        " Hosting ",
		Description: "Servidores compartidos",
		Price:       1000,
		InStock:     true,
		Icon:        " bi-server ",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(21), item.ID)
	assert.Equal(t, "Hosting", item.Name)
	assert.Equal(t, "bi-server", item.Icon)
	assert.True(t, item.Active)
}

func TestCatalogService_Create_ExplicitlyInactive(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	inactive := false
	repos.catalogRepo.EXPECT().NameTaken(ctx, "Hosting", int64(0)).Return(false, nil)
	repos.catalogRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(item *entity.CatalogItem) bool { return !item.Active })).
		Return(nil)

	item, err := fx.service.Create(ctx, usecase.CatalogItemInput{
		Name:        "Hosting",
		Description: "Servidores compartidos",
		Icon:        "bi-hdd",
		Active:      &inactive,
	})

	require.NoError(t, err)
	assert.False(t, item.Active)
	assert.Equal(t, "bi-hdd", item.Icon)
}

func TestCatalogService_Create_NameTaken(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.catalogRepo.EXPECT().NameTaken(ctx, "servicio de nube", int64(0)).Return(true, nil)

	_, err := fx.service.Create(ctx, usecase.CatalogItemInput{Name: "servicio de nube", Description: "Duplicado de prueba"})

	assert.ErrorIs(t, err, domainerrors.ErrCatalogItemAlreadyExists)
}

func TestCatalogService_Create_DuplicateOnInsert(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.catalogRepo.EXPECT().NameTaken(ctx, "Hosting", int64(0)).Return(false, nil)
	repos.catalogRepo.EXPECT().Create(ctx, mock.Anything).Return(repository.ErrDuplicateCatalogName)

	_, err := fx.service.Create(ctx, usecase.CatalogItemInput{Name: "Hosting", Description: "Servidores compartidos"})

	assert.ErrorIs(t, err, domainerrors.ErrCatalogItemAlreadyExists)
}

func TestCatalogService_Update_KeepsCreationTime(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repos.catalogRepo.EXPECT().FindByID(ctx, int64(5)).Return(&entity.CatalogItem{ID: 5, Name: "Old", CreatedAt: created}, nil)
	repos.catalogRepo.EXPECT().NameTaken(ctx, "New", int64(5)).Return(false, nil)
	repos.catalogRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.CatalogItem")).Return(nil)

	item, err := fx.service.Update(ctx, 5, usecase.CatalogItemInput{Name: "New", Description: "Descripción nueva", Price: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.Equal(t, created, item.CreatedAt)
	assert.True(t, item.Active)
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.catalogRepo.EXPECT().FindByID(ctx, int64(5)).Return(nil, repository.ErrCatalogItemNotFound)

	_, err := fx.service.Update(ctx, 5, usecase.CatalogItemInput{Name: "New", Description: "Descripción nueva"})

	assert.ErrorIs(t, err, domainerrors.ErrCatalogItemNotFound)
}

func TestCatalogService_Update_NameOwnedByAnotherItem(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	repos.catalogRepo.EXPECT().FindByID(ctx, int64(5)).Return(&entity.CatalogItem{ID: 5}, nil)
	repos.catalogRepo.EXPECT().NameTaken(ctx, "Dominio web", int64(5)).Return(true, nil)

	_, err := fx.service.Update(ctx, 5, usecase.CatalogItemInput{Name: "Dominio web", Description: "Descripción nueva"})

	assert.ErrorIs(t, err, domainerrors.ErrCatalogItemAlreadyExists)
}

func TestCatalogService_Delete(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	repos := expectTransaction(t, fx.txManager)

	item := &entity.CatalogItem{ID: 5, Name: "Hosting"}
	repos.catalogRepo.EXPECT().FindByID(ctx, int64(5)).Return(item, nil)
	repos.catalogRepo.EXPECT().Delete(ctx, int64(5)).Return(nil)

	deleted, err := fx.service.Delete(ctx, 5)

	require.NoError(t, err)
	assert.Same(t, item, deleted)
}
