package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// catalogRepository implements the repository.CatalogRepository interface.
type catalogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCatalogRepository is the constructor for catalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{
		db:  db,
		now: time.Now,
	}
}

// FindByID retrieves an item regardless of its active flag.
func (repo *catalogRepository) FindByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("id = ?", id))
}

// FindActiveByID retrieves an item only while it is active.
func (repo *catalogRepository) FindActiveByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("id = ? AND activo = ?", id, true))
}

func (repo *catalogRepository) findOne(query *gorm.DB) (*entity.CatalogItem, error) {
	var itemM model.CatalogItemModel

	if err := query.First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCatalogItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find catalog item")
	}

	return toCatalogDomain(&itemM), nil
}

// ListActive returns active items ordered by id ascending.
func (repo *catalogRepository) ListActive(ctx context.Context) ([]*entity.CatalogItem, error) {
	return repo.list(repo.db.WithContext(ctx).Where("activo = ?", true))
}

// ListAll returns every item ordered by id ascending.
func (repo *catalogRepository) ListAll(ctx context.Context) ([]*entity.CatalogItem, error) {
	return repo.list(repo.db.WithContext(ctx))
}

func (repo *catalogRepository) list(query *gorm.DB) ([]*entity.CatalogItem, error) {
	var itemModels []*model.CatalogItemModel

	if err := query.Order("id ASC").Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list catalog items")
	}

	items := make([]*entity.CatalogItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		items = append(items, toCatalogDomain(itemM))
	}

	return items, nil
}

// NameTaken reports whether another item has the same name ignoring case.
func (repo *catalogRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64

	query := repo.db.WithContext(ctx).
		Model(&model.CatalogItemModel{}).
		Where("LOWER(nombre) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check catalog item name")
	}

	return count > 0, nil
}

// Count returns the number of stored items.
func (repo *catalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.CatalogItemModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count catalog items")
	}

	return count, nil
}

// Create persists a new item.
func (repo *catalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	itemM := fromCatalogDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCatalogName
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required catalog item information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create catalog item")
	}

	item.ID = itemM.ID
	item.Icon = itemM.Icon
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// Update overwrites every mutable column and refreshes fecha_actualizacion.
func (repo *catalogRepository) Update(ctx context.Context, item *entity.CatalogItem) error {
	updatedAt := repo.now()

	result := repo.db.WithContext(ctx).
		Model(&model.CatalogItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"nombre":              item.Name,
			"descripcion":         item.Description,
			"precio":              item.Price,
			"stock":               item.InStock,
			"icono":               item.Icon,
			"activo":              item.Active,
			"fecha_actualizacion": updatedAt,
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCatalogName
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update catalog item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCatalogItemNotFound
	}

	item.UpdatedAt = updatedAt

	return nil
}

// Delete hard-deletes an item.
func (repo *catalogRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CatalogItemModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete catalog item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCatalogItemNotFound
	}

	return nil
}

func toCatalogDomain(itemM *model.CatalogItemModel) *entity.CatalogItem {
	return &entity.CatalogItem{
		ID:          itemM.ID,
		Name:        itemM.Name,
		Description: itemM.Description,
		Price:       itemM.Price,
		InStock:     itemM.InStock,
		Icon:        itemM.Icon,
		Active:      itemM.Active,
		CreatedAt:   itemM.CreatedAt,
		UpdatedAt:   itemM.UpdatedAt,
	}
}

func fromCatalogDomain(item *entity.CatalogItem) *model.CatalogItemModel {
	icon := item.Icon
	if icon == "" {
		icon = entity.DefaultCatalogIcon
	}

	return &model.CatalogItemModel{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		InStock:     item.InStock,
		Icon:        icon,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
