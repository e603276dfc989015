package product

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/redis"
)

type idLabeler struct{}

func (idLabeler) LabelVariants(_ context.Context, list []variants.Variant) ([]catalog.VariantRow, error) {
	rows := make([]catalog.VariantRow, 0, len(list))
	for _, v := range list {
		rows = append(rows, catalog.VariantRow{ID: v.ID, Label: v.ID, MetalWeight: v.MetalWeight})
	}
	return rows, nil
}

type memoryDraftCache struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]time.Duration
}

func newMemoryDraftCache() *memoryDraftCache {
	return &memoryDraftCache{data: map[string]string{}, expires: map[string]time.Duration{}}
}

func (m *memoryDraftCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	m.expires[key] = ttl
	return nil
}

func (m *memoryDraftCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return v, nil
}

func (m *memoryDraftCache) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return false, nil
	}
	m.expires[key] = ttl
	return true, nil
}

func (m *memoryDraftCache) DraftKey(id string) string { return "draft:" + id }

func newTestService(t *testing.T) (Service, *memoryDraftCache) {
	t.Helper()
	conn := setupProductsTestDB(t)
	cache := newMemoryDraftCache()
	drafts, err := NewDraftStore(cache, time.Hour)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), idLabeler{}, Options{Drafts: drafts})
	require.NoError(t, err)
	return svc, cache
}

func errorDetails(t *testing.T, err error) map[string]any {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	return details
}

func TestPreviewVariantsRepairsDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.PreviewVariants(ctx, PreviewVariantsInput{Selection: goldSelection(), DefaultVariantID: strPtr("gold-rose-18k")})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "gold-rose-18k", *out.DefaultVariantID)
	require.Len(t, out.Rows, 2)

	out, err = svc.PreviewVariants(ctx, PreviewVariantsInput{Selection: goldSelection(), DefaultVariantID: strPtr("silver-white-925")})
	require.NoError(t, err)
	assert.Equal(t, "gold-yellow-18k", *out.DefaultVariantID)

	out, err = svc.PreviewVariants(ctx, PreviewVariantsInput{})
	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.Nil(t, out.DefaultVariantID)
	assert.NotNil(t, out.Variants)
}

func TestCreateProductBlockedReportsTabs(t *testing.T) {
	svc, _ := newTestService(t)

	draft := validDraft("RING-1")
	draft.Basic.Title = ""
	draft.Attributes.CategoryIDs = nil

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProductType: enums.ProductTypeJewellery,
		Draft:       draft,
		PriceSheet:  testSheet(),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details := errorDetails(t, err)
	assert.Equal(t, []enums.FormTab{enums.FormTabBasic, enums.FormTabAttributes}, details["invalid_tabs"])
}

func TestCreateProductPersistsVariants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductType:      enums.ProductTypeJewellery,
		Draft:            validDraft("RING-1"),
		DefaultVariantID: strPtr("gold-rose-18k-si-ij"),
		PriceSheet:       testSheet(),
	})
	require.NoError(t, err)
	assert.Len(t, out.GeneratedVariants, 4)
	assert.Equal(t, "gold-rose-18k-si-ij", out.DefaultVariantID)

	stored, err := svc.GetProduct(ctx, out.Product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Variants, 4)
	defaults := 0
	for i, v := range stored.Variants {
		assert.Equal(t, i, v.Position)
		assert.Equal(t, out.GeneratedVariants[i].ID, v.VariantKey)
		if v.IsDefault {
			defaults++
			assert.Equal(t, "gold-rose-18k-si-ij", v.VariantKey)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, stored.Variants[0].PriceComponents.Diamond.Equal(d("500")))
	assert.Equal(t, "gold", stored.Variants[0].Metadata.MetalTypeID)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		ProductType: enums.ProductTypeJewellery,
		Draft:       validDraft("RING-1"),
		PriceSheet:  testSheet(),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	list, err := svc.ListProducts(ctx, ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, list.Products, 1)
}

func TestCreateProductRequiresCompletePriceSheet(t *testing.T) {
	svc, _ := newTestService(t)

	sheet := testSheet()
	delete(sheet.StoneRates, "p-si")
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProductType: enums.ProductTypeJewellery,
		Draft:       validDraft("RING-2"),
		PriceSheet:  sheet,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, []string{"p-si"}, errorDetails(t, err)["missing_rates"])
}

func TestCreateProductRejectsCollidingVariantKeys(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sel := selection.Selection{Metals: []selection.SelectedMetal{
		{MetalTypeID: "white", ColorIDs: []string{"gold-rose"}, Purities: []selection.Purity{{PurityID: "18k", Weight: d("2")}}},
		{MetalTypeID: "white-gold", ColorIDs: []string{"rose"}, Purities: []selection.Purity{{PurityID: "18k", Weight: d("2")}}},
	}}
	draft := validDraft("RING-3")
	draft.Selection = sel

	_, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductType: enums.ProductTypeJewellery,
		Draft:       draft,
		PriceSheet:  testSheet(),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, []string{"white-gold-rose-18k"}, errorDetails(t, err)["duplicate_variant_ids"])

	_, err = svc.PreviewVariants(ctx, PreviewVariantsInput{Selection: sel})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	list, err := svc.ListProducts(ctx, ListProductsInput{})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDraftLifecycle(t *testing.T) {
	svc, cache := newTestService(t)
	ctx := context.Background()

	incomplete := validDraft("RING-9")
	incomplete.Basic.SKU = ""
	incomplete.Selection = goldSelection()

	session, err := svc.StartDraft(ctx, StartDraftInput{ProductType: enums.ProductTypeJewellery, Draft: incomplete})
	require.NoError(t, err)
	assert.Len(t, session.Variants, 2)
	assert.Equal(t, "gold-yellow-18k", *session.DefaultVariantID)
	assert.Equal(t, time.Hour, cache.expires["draft:"+session.ID])

	session, err = svc.UpdateDraft(ctx, session.ID, UpdateDraftInput{
		Draft:            incomplete,
		DefaultVariantID: strPtr("gold-rose-18k"),
		ActiveTab:        ptrTab(enums.FormTabSEO),
	})
	require.NoError(t, err)
	assert.Equal(t, "gold-rose-18k", *session.DefaultVariantID)

	_, err = svc.SubmitDraft(ctx, session.ID, testSheet())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	blocked, err := svc.GetDraft(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.FormStatusBlocked, blocked.Form.Status)
	assert.Equal(t, enums.FormTabSEO, blocked.Form.ActiveTab)
	assert.Equal(t, []enums.FormTab{enums.FormTabBasic}, blocked.Form.InvalidTabs)

	fixed := incomplete
	fixed.Basic.SKU = "RING-9"
	fixed.Selection = diamondSelection()
	session, err = svc.UpdateDraft(ctx, session.ID, UpdateDraftInput{
		Draft:        fixed,
		EditedFields: []FieldRef{{Tab: enums.FormTabBasic, Field: "sku"}},
	})
	require.NoError(t, err)
	assert.Len(t, session.Variants, 4)
	assert.Equal(t, "gold-yellow-18k-vs-gh", *session.DefaultVariantID)
	assert.Empty(t, session.Form.InvalidTabs)
	assert.Equal(t, enums.FormTabSEO, session.Form.ActiveTab)

	result, err := svc.SubmitDraft(ctx, session.ID, testSheet())
	require.NoError(t, err)
	assert.Equal(t, "gold-yellow-18k-vs-gh", result.DefaultVariantID)

	_, err = svc.SubmitDraft(ctx, session.ID, testSheet())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	_, err = svc.UpdateDraft(ctx, session.ID, UpdateDraftInput{Draft: fixed})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateDraftRejectsUnknownDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartDraft(ctx, StartDraftInput{ProductType: enums.ProductTypeJewellery, Draft: validDraft("X")})
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, session.ID, UpdateDraftInput{Draft: validDraft("X"), DefaultVariantID: strPtr("nope")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.GetDraft(ctx, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDraftOperationsRequireStore(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), idLabeler{}, Options{})
	require.NoError(t, err)

	_, err = svc.StartDraft(context.Background(), StartDraftInput{ProductType: enums.ProductTypeJewellery})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestValidateDraft(t *testing.T) {
	svc, _ := newTestService(t)
	res := svc.ValidateDraft(context.Background(), validation.Draft{})
	assert.Equal(t, enums.FormStatusBlocked, res.Status)
	assert.Contains(t, res.InvalidTabs, enums.FormTabMetal)
}

func ptrTab(tab enums.FormTab) *enums.FormTab { return &tab }
