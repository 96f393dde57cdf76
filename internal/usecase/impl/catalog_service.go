package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:   params.TxManager,
		catalogRepo: params.CatalogRepo,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListActive(ctx context.Context) ([]*entity.CatalogItem, error) {
	items, err := srv.catalogRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active catalog items")
	}

	return items, nil
}

// GetActive hides inactive items behind the same 404 as missing ones.
func (srv *catalogService) GetActive(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	item, err := srv.catalogRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, "failed to get catalog item")
	}

	return item, nil
}

func (srv *catalogService) ListAll(ctx context.Context) ([]*entity.CatalogItem, error) {
	items, err := srv.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list catalog items")
	}

	return items, nil
}

// Create inserts a new item. Active defaults to true when omitted.
func (srv *catalogService) Create(ctx context.Context, input usecase.CatalogItemInput) (*entity.CatalogItem, error) {
	item := newCatalogItem(input)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.NewCatalogRepository()

		taken, err := catalogRepo.NameTaken(ctx, item.Name, 0)
		if err != nil {
			return errors.Wrap(err, "failed to check catalog name availability")
		}
		if taken {
			return domainerrors.ErrCatalogItemAlreadyExists
		}

		return catalogRepo.Create(ctx, item)
	})
	if err != nil {
		return nil, mapCatalogError(err, "failed to create catalog item")
	}

	srv.log(ctx).Info("Catalog item created", slog.Int64("itemID", item.ID))

	return item, nil
}

// Update overwrites every mutable field of an existing item.
func (srv *catalogService) Update(ctx context.Context, id int64, input usecase.CatalogItemInput) (*entity.CatalogItem, error) {
	var updated *entity.CatalogItem

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.NewCatalogRepository()

		existing, err := catalogRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		item := newCatalogItem(input)
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt

		taken, err := catalogRepo.NameTaken(ctx, item.Name, id)
		if err != nil {
			return errors.Wrap(err, "failed to check catalog name availability")
		}
		if taken {
			return domainerrors.ErrCatalogItemAlreadyExists
		}

		if err := catalogRepo.Update(ctx, item); err != nil {
			return err
		}
		updated = item

		return nil
	})
	if err != nil {
		return nil, mapCatalogError(err, "failed to update catalog item")
	}

	srv.log(ctx).Info("Catalog item updated", slog.Int64("itemID", id))

	return updated, nil
}

func (srv *catalogService) Delete(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	var deleted *entity.CatalogItem

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.NewCatalogRepository()

		item, err := catalogRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := catalogRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = item

		return nil
	})
	if err != nil {
		return nil, mapCatalogError(err, "failed to delete catalog item")
	}

	srv.log(ctx).Info("Catalog item deleted", slog.Int64("itemID", id))

	return deleted, nil
}

func newCatalogItem(input usecase.CatalogItemInput) *entity.CatalogItem {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	return &entity.CatalogItem{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		InStock:     input.InStock,
		Icon:        strings.TrimSpace(input.Icon),
		Active:      active,
	}
}

// mapCatalogError converts repository sentinels into AppErrors.
func mapCatalogError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrCatalogItemNotFound):
		return domainerrors.ErrCatalogItemNotFound
	case errors.Is(err, repository.ErrDuplicateCatalogName):
		return domainerrors.ErrCatalogItemAlreadyExists
	default:
		return errors.Wrap(err, message)
	}
}
