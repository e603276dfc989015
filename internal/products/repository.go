package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
)

// Repository persists products and their generated variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the product and its variants.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SKUExists reports whether a product already uses sku.
func (r *Repository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads the product with its variants in position order.
// It returns gorm.ErrRecordNotFound when the product does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", orderVariants).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List pages products newest first, optionally scoped to one product type.
func (r *Repository) List(ctx context.Context, input ListProductsInput) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if input.ProductType != nil {
		qb = qb.Where("product_type = ?", *input.ProductType)
	}
	if cursor != nil {
		qb = qb.Where(pagination.KeysetClause, cursor.Args()...)
	}

	var rows []models.Product
	err = qb.Preload("Variants", orderVariants).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	rows, next := pagination.Trim(rows, input.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return rows, next, nil
}

// ListWithVariantsByType loads up to limit products of productType with their variants,
// newest first. It backs pricing rule previews.
func (r *Repository) ListWithVariantsByType(ctx context.Context, productType enums.ProductType, limit int) ([]models.Product, error) {
	var rows []models.Product
	qb := r.db.WithContext(ctx).
		Preload("Variants", orderVariants).
		Where("product_type = ?", productType).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CatalogVersion summarizes the stored products of productType. It changes whenever a product
// of that type is created or updated, so cached previews can be keyed on it.
func (r *Repository) CatalogVersion(ctx context.Context, productType enums.ProductType) (string, error) {
	var (
		total  int64
		latest sql.NullString
	)
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COUNT(*), MAX(updated_at)").
		Where("product_type = ?", productType).
		Row().
		Scan(&total, &latest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%s", total, latest.String), nil
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
