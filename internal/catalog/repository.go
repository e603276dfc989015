package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/jewelcraft-backend/internal/repo"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// Repository reads attribute reference data.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListByKind returns every value of kind ordered for display.
func (r *Repository) ListByKind(ctx context.Context, kind enums.AttributeKind) ([]models.AttributeValue, error) {
	var rows []models.AttributeValue
	err := r.DB(ctx).
		Where("kind = ?", kind).
		Order("position ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]models.AttributeValue, error) {
	return repo.FindByIDs[models.AttributeValue](ctx, r.Base, ids)
}

// Create inserts reference values; used by seeding and tests.
func (r *Repository) Create(ctx context.Context, values ...models.AttributeValue) error {
	if len(values) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&values).Error
}

// Upsert inserts values or refreshes the kind, code, name and position of existing IDs.
func (r *Repository) Upsert(ctx context.Context, values ...models.AttributeValue) error {
	if len(values) == 0 {
		return nil
	}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "code", "name", "position"}),
	}).Create(&values).Error
}
