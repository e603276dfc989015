package pricingrules

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
)

type stubRuleStore struct {
	rules map[uuid.UUID]models.PricingRule
}

func newStubRuleStore() *stubRuleStore {
	return &stubRuleStore{rules: map[uuid.UUID]models.PricingRule{}}
}

func (s *stubRuleStore) Create(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now().UTC()
	rule.UpdatedAt = rule.CreatedAt
	s.rules[rule.ID] = *rule
	return rule, nil
}

func (s *stubRuleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	rule, ok := s.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rule, nil
}

func (s *stubRuleStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.rules[id]
	delete(s.rules, id)
	return ok, nil
}

func (s *stubRuleStore) List(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error) {
	out := make([]models.PricingRule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	return out, "", nil
}

type stubProductSource struct {
	products []models.Product
	calls    int
	err      error
}

func (s *stubProductSource) ListWithVariantsByType(ctx context.Context, productType enums.ProductType, limit int) ([]models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ProductType == productType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductSource) CatalogVersion(ctx context.Context, productType enums.ProductType) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return strconv.Itoa(len(s.products)), nil
}

type memoryCache struct {
	data map[string]string
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memoryCache) PreviewKey(digest string) string { return "preview:" + digest }

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func storedProduct(t *testing.T) models.Product {
	meta := sampleVariant()
	return models.Product{
		ID:          uuid.New(),
		SKU:         "RNG-100",
		Title:       "Halo Ring",
		ProductType: enums.ProductTypeJewellery,
		CategoryIDs: []string{"rings"},
		Variants: []models.ProductVariant{{
			ID:              uuid.New(),
			VariantKey:      "gold-yellow-18k-vvs-ef",
			Price:           d("2500"),
			PriceComponents: mustJSON(t, models.VariantPriceComponents{Making: d("1000"), Diamond: d("800")}),
			Metadata:        mustJSON(t, meta),
		}},
	}
}

func newTestService(t *testing.T, products *stubProductSource, cache previewCache) (Service, *stubRuleStore) {
	t.Helper()
	store := newStubRuleStore()
	svc, err := NewService(store, products, cache, Options{CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, &stubProductSource{}, nil, Options{}); err == nil {
		t.Fatal("expected error without rule store")
	}
	if _, err := NewService(newStubRuleStore(), nil, nil, Options{}); err == nil {
		t.Fatal("expected error without product source")
	}
}

func TestCreateRulePersistsTypedConditions(t *testing.T) {
	svc, store := newTestService(t, &stubProductSource{}, nil)

	rule, err := svc.CreateRule(context.Background(), CreateRuleInput{
		Name:        "  Heavy gold uplift ",
		ProductType: enums.ProductTypeJewellery,
		Conditions: []ConditionState{
			cond("metal_weight", `{"from": 2, "to": 10}`),
			{ID: "draft-row"},
		},
		Actions: Actions{MakingChargeMarkup: d("10")},
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if rule.Name != "Heavy gold uplift" {
		t.Fatalf("expected trimmed name, got %q", rule.Name)
	}
	if len(rule.Conditions) != 1 || *rule.Conditions[0].Type != "metal_weight" {
		t.Fatalf("draft rows should not be persisted, got %+v", rule.Conditions)
	}
	if _, ok := store.rules[rule.ID]; !ok {
		t.Fatal("rule not stored")
	}

	got, err := svc.GetRule(context.Background(), rule.ID)
	if err != nil {
		t.Fatalf("get rule: %v", err)
	}
	if !got.Actions.MakingChargeMarkup.Equal(d("10")) {
		t.Fatalf("unexpected actions %+v", got.Actions)
	}
}

func TestCreateRuleAggregatesValidationErrors(t *testing.T) {
	svc, _ := newTestService(t, &stubProductSource{}, nil)

	_, err := svc.CreateRule(context.Background(), CreateRuleInput{
		Name:        "",
		ProductType: enums.ProductType("watch"),
		Conditions:  []ConditionState{cond("diamond_carat", `{"from": 3, "to": 1}`)},
		Actions:     Actions{},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", pkgerrors.As(err).Details())
	}
	msgs, _ := details["errors"].([]string)
	if len(msgs) < 4 {
		t.Fatalf("expected name, product type, range and actions errors, got %v", msgs)
	}
}

func TestGetAndDeleteRuleNotFound(t *testing.T) {
	svc, _ := newTestService(t, &stubProductSource{}, nil)
	if _, err := svc.GetRule(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeleteRule(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestPreviewApplicableProductsUsesCache(t *testing.T) {
	products := &stubProductSource{products: []models.Product{storedProduct(t)}}
	cache := &memoryCache{data: map[string]string{}}
	svc, _ := newTestService(t, products, cache)

	input := PreviewInput{
		ProductType: enums.ProductTypeJewellery,
		Conditions: []ConditionState{
			cond("metal_weight", `{"from":2,"to":10}`),
			{ID: "incomplete"},
		},
		Actions: Actions{MakingChargeMarkup: d("10")},
	}

	preview, err := svc.PreviewApplicableProducts(context.Background(), input)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.MatchedProducts != 1 || preview.MatchedVariants != 1 {
		t.Fatalf("unexpected preview %+v", preview)
	}
	if !preview.Products[0].MaxNewPrice.Equal(d("2600")) {
		t.Fatalf("expected new price 2600, got %s", preview.Products[0].MaxNewPrice)
	}
	if len(cache.data) != 1 {
		t.Fatalf("expected preview to be cached, got %d entries", len(cache.data))
	}

	// Whitespace in condition values does not change the cache key.
	input.Conditions[0] = cond("metal_weight", `{ "from": 2, "to": 10 }`)
	again, err := svc.PreviewApplicableProducts(context.Background(), input)
	if err != nil {
		t.Fatalf("cached preview: %v", err)
	}
	if products.calls != 1 {
		t.Fatalf("expected cached result, product source called %d times", products.calls)
	}
	if !again.Products[0].MaxNewPrice.Equal(d("2600")) {
		t.Fatalf("cached preview differs: %+v", again.Products[0])
	}
}

func TestPreviewCacheMissesAfterCatalogChange(t *testing.T) {
	products := &stubProductSource{products: []models.Product{storedProduct(t)}}
	cache := &memoryCache{data: map[string]string{}}
	svc, _ := newTestService(t, products, cache)

	input := PreviewInput{
		ProductType: enums.ProductTypeJewellery,
		Conditions:  []ConditionState{cond("metal_weight", `{"from":2,"to":10}`)},
		Actions:     Actions{MakingChargeMarkup: d("10")},
	}
	if _, err := svc.PreviewApplicableProducts(context.Background(), input); err != nil {
		t.Fatalf("preview: %v", err)
	}

	products.products = append(products.products, storedProduct(t))

	preview, err := svc.PreviewApplicableProducts(context.Background(), input)
	if err != nil {
		t.Fatalf("preview after create: %v", err)
	}
	if products.calls != 2 {
		t.Fatalf("expected a fresh load after the catalog changed, got %d calls", products.calls)
	}
	if preview.MatchedProducts != 2 {
		t.Fatalf("new product missing from preview: %+v", preview)
	}
	if len(cache.data) != 2 {
		t.Fatalf("expected one entry per catalog version, got %d", len(cache.data))
	}
}

func TestPreviewFailsClosedOnMalformedConditions(t *testing.T) {
	products := &stubProductSource{products: []models.Product{storedProduct(t)}}
	svc, _ := newTestService(t, products, nil)

	preview, err := svc.PreviewApplicableProducts(context.Background(), PreviewInput{
		ProductType: enums.ProductTypeJewellery,
		Conditions:  []ConditionState{cond("metal_weight", `{"from":10,"to":2}`)},
		Actions:     Actions{MakingChargeMarkup: d("10")},
	})
	if err != nil {
		t.Fatalf("preview should not error on malformed conditions: %v", err)
	}
	if preview.MatchedVariants != 0 {
		t.Fatalf("malformed rule must not match, got %+v", preview)
	}
}

func TestPreviewValidatesProductTypeAndWrapsSourceErrors(t *testing.T) {
	svc, _ := newTestService(t, &stubProductSource{}, nil)
	if _, err := svc.PreviewApplicableProducts(context.Background(), PreviewInput{ProductType: "watch"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	failing, _ := newTestService(t, &stubProductSource{err: errors.New("db down")}, nil)
	if _, err := failing.PreviewApplicableProducts(context.Background(), PreviewInput{ProductType: enums.ProductTypeJewellery}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
