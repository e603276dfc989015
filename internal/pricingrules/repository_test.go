package pricingrules

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	"github.com/angelmondragon/jewelcraft-backend/pkg/migrate"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
)

func setupRulesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.ApplySQLiteSchema(context.Background(), db))
	return db
}

func TestRepositoryCreateFindDelete(t *testing.T) {
	db := setupRulesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rule, err := repo.Create(ctx, &models.PricingRule{
		Name:        "Diamond uplift",
		ProductType: enums.ProductTypeJewellery,
		Conditions:  datatypes.JSON(`[{"type":"diamond_carat","value":{"from":"0.5","to":"2"}}]`),
		Actions:     datatypes.JSON(`{"diamond_markup":"8"}`),
	})
	require.NoError(t, err)
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", rule.ID.String())

	found, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diamond uplift", found.Name)

	dto, err := toRuleDTO(*found)
	require.NoError(t, err)
	require.Len(t, dto.Conditions, 1)
	assert.Equal(t, "diamond_carat", *dto.Conditions[0].Type)
	assert.True(t, dto.Actions.DiamondMarkup.Equal(d("8")))

	deleted, err := repo.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, rule.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListPaginates(t *testing.T) {
	db := setupRulesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &models.PricingRule{
			Name:        fmt.Sprintf("rule-%d", i),
			ProductType: enums.ProductTypeJewellery,
			Conditions:  datatypes.JSON(`[]`),
			Actions:     datatypes.JSON(`{"making_charge_markup":"1"}`),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base,
		})
		require.NoError(t, err)
	}

	first, next, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "rule-2", first[0].Name)
	assert.Equal(t, "rule-1", first[1].Name)
	require.NotEmpty(t, next)

	second, next, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "rule-0", second[0].Name)
	assert.Empty(t, next)

	_, _, err = repo.List(ctx, pagination.Params{Cursor: "not-base64!"})
	assert.Error(t, err)
}
