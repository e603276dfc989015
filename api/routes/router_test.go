package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	"github.com/angelmondragon/jewelcraft-backend/internal/pricingrules"
	product "github.com/angelmondragon/jewelcraft-backend/internal/products"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/config"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListAttributes(ctx context.Context, kind string) ([]catalog.AttributeDTO, error) {
	return []catalog.AttributeDTO{}, nil
}

func (stubCatalogService) LabelVariants(ctx context.Context, list []variants.Variant) ([]catalog.VariantRow, error) {
	return nil, nil
}

type stubProductService struct{}

func (stubProductService) PreviewVariants(ctx context.Context, input product.PreviewVariantsInput) (*product.VariantPreview, error) {
	return &product.VariantPreview{}, nil
}

func (stubProductService) ValidateDraft(ctx context.Context, draft validation.Draft) validation.Result {
	return validation.Result{Status: enums.FormStatusBlocked}
}

func (stubProductService) CreateProduct(ctx context.Context, input product.CreateProductInput) (*product.CreateProductResult, error) {
	return &product.CreateProductResult{}, nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

func (stubProductService) ListProducts(ctx context.Context, input product.ListProductsInput) (*product.ProductList, error) {
	return &product.ProductList{}, nil
}

func (stubProductService) StartDraft(ctx context.Context, input product.StartDraftInput) (*product.DraftSession, error) {
	return &product.DraftSession{ID: "d1"}, nil
}

func (stubProductService) GetDraft(ctx context.Context, id string) (*product.DraftSession, error) {
	return &product.DraftSession{ID: id}, nil
}

func (stubProductService) UpdateDraft(ctx context.Context, id string, input product.UpdateDraftInput) (*product.DraftSession, error) {
	return &product.DraftSession{ID: id}, nil
}

func (stubProductService) SubmitDraft(ctx context.Context, id string, sheet product.PriceSheet) (*product.CreateProductResult, error) {
	return &product.CreateProductResult{}, nil
}

type stubPricingService struct{}

func (stubPricingService) CreateRule(ctx context.Context, input pricingrules.CreateRuleInput) (*pricingrules.RuleDTO, error) {
	return &pricingrules.RuleDTO{ID: uuid.New()}, nil
}

func (stubPricingService) GetRule(ctx context.Context, id uuid.UUID) (*pricingrules.RuleDTO, error) {
	return &pricingrules.RuleDTO{ID: id}, nil
}

func (stubPricingService) ListRules(ctx context.Context, params pagination.Params) (*pricingrules.RuleList, error) {
	return &pricingrules.RuleList{}, nil
}

func (stubPricingService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubPricingService) PreviewApplicableProducts(ctx context.Context, input pricingrules.PreviewInput) (*pricingrules.Preview, error) {
	return &pricingrules.Preview{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(cfg *config.Config, metricsHandler http.Handler) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, nil, stubCatalogService{}, stubProductService{}, stubPricingService{}, metricsHandler)
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	productID := uuid.NewString()
	ruleID := uuid.NewString()

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/api/v1/attributes/metal_type", "", http.StatusOK},
		{http.MethodPost, "/api/v1/products/variants/preview", `{}`, http.StatusOK},
		{http.MethodPost, "/api/v1/products/validate", `{}`, http.StatusOK},
		{http.MethodPost, "/api/v1/products", `{"product_type":"jewellery"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/" + productID, "", http.StatusOK},
		{http.MethodPost, "/api/v1/product-drafts", `{"product_type":"coin"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/product-drafts/d1", "", http.StatusOK},
		{http.MethodPut, "/api/v1/product-drafts/d1", `{}`, http.StatusOK},
		{http.MethodPost, "/api/v1/product-drafts/d1/submit", `{}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/pricing-rules", `{"name":"r","product_type":"jewellery"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/pricing-rules", "", http.StatusOK},
		{http.MethodGet, "/api/v1/pricing-rules/" + ruleID, "", http.StatusOK},
		{http.MethodDelete, "/api/v1/pricing-rules/" + ruleID, "", http.StatusOK},
		{http.MethodPost, "/api/v1/pricing-rules/preview", `{"product_type":"jewellery"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterEchoesRequestID(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected request id echo, got %q", got)
	}
}

func TestRouterMetricsToggle(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	rec := httptest.NewRecorder()
	newTestRouter(testConfig(), metricsHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics route, got %d", rec.Code)
	}

	cfg := testConfig()
	cfg.Metrics.Enabled = false
	rec = httptest.NewRecorder()
	newTestRouter(cfg, metricsHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected metrics disabled, got %d", rec.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
}
