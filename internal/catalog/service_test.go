package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
)

type stubAttributeStore struct {
	values []models.AttributeValue
	err    error
}

func (s *stubAttributeStore) ListByKind(_ context.Context, kind enums.AttributeKind) ([]models.AttributeValue, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.AttributeValue
	for _, v := range s.values {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubAttributeStore) FindByIDs(_ context.Context, ids []string) ([]models.AttributeValue, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.AttributeValue
	for _, v := range s.values {
		if want[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func referenceStore() *stubAttributeStore {
	return &stubAttributeStore{values: []models.AttributeValue{
		{ID: "gold", Kind: enums.AttributeKindMetalType, Name: "Gold"},
		{ID: "yellow", Kind: enums.AttributeKindMetalColor, Name: "Yellow"},
		{ID: "18k", Kind: enums.AttributeKindMetalPurity, Name: "18K"},
		{ID: "vs-gh", Kind: enums.AttributeKindDiamondClarityColor, Name: "VS GH"},
		{ID: "ruby", Kind: enums.AttributeKindGemstoneColor, Name: "Ruby"},
	}}
}

func strPtr(v string) *string { return &v }

func TestLabelVariants(t *testing.T) {
	svc, err := NewService(referenceStore())
	require.NoError(t, err)

	rows, err := svc.LabelVariants(context.Background(), []variants.Variant{
		{ID: "gold-yellow-18k", MetalTypeID: "gold", MetalColorID: "yellow", MetalPurityID: "18k", MetalWeight: decimal.RequireFromString("2.5")},
		{ID: "gold-yellow-18k-vs-gh-ruby", MetalTypeID: "gold", MetalColorID: "yellow", MetalPurityID: "18k",
			MetalWeight: decimal.RequireFromString("2.5"), DiamondClarityColorID: strPtr("vs-gh"), GemstoneColorID: strPtr("ruby")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gold / Yellow / 18K", rows[0].Label)
	assert.Equal(t, "Gold / Yellow / 18K / VS GH / Ruby", rows[1].Label)
	assert.True(t, rows[0].MetalWeight.Equal(decimal.RequireFromString("2.5")))
}

func TestLabelVariantsMissingReferenceIsInternal(t *testing.T) {
	svc, err := NewService(referenceStore())
	require.NoError(t, err)

	_, err = svc.LabelVariants(context.Background(), []variants.Variant{
		{ID: "silver-white-925", MetalTypeID: "silver", MetalColorID: "white", MetalPurityID: "925"},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"925", "silver", "white"}, details["missing_ids"])
}

func TestLabelVariantsEmpty(t *testing.T) {
	svc, err := NewService(&stubAttributeStore{err: errors.New("unused")})
	require.NoError(t, err)

	rows, err := svc.LabelVariants(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListAttributes(t *testing.T) {
	svc, err := NewService(referenceStore())
	require.NoError(t, err)

	out, err := svc.ListAttributes(context.Background(), "metal_type")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Gold", out[0].Name)

	_, err = svc.ListAttributes(context.Background(), "shoe_size")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	failing, err := NewService(&stubAttributeStore{err: errors.New("boom")})
	require.NoError(t, err)
	_, err = failing.ListAttributes(context.Background(), "metal_type")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
