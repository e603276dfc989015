package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/jewelcraft-backend/api/controllers"
	"github.com/angelmondragon/jewelcraft-backend/api/middleware"
	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	"github.com/angelmondragon/jewelcraft-backend/internal/pricingrules"
	product "github.com/angelmondragon/jewelcraft-backend/internal/products"
	"github.com/angelmondragon/jewelcraft-backend/pkg/config"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
	"github.com/angelmondragon/jewelcraft-backend/pkg/redis"
)

// NewRouter wires the admin API. metricsHandler is mounted only when metrics are enabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	productService product.Service,
	pricingService pricingrules.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if cfg.Metrics.Enabled && metricsHandler != nil {
		r.Handle(cfg.Metrics.Path, metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/attributes/{kind}", controllers.ListAttributes(catalogService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Post("/variants/preview", controllers.PreviewVariants(productService, logg))
			r.Post("/validate", controllers.ValidateProduct(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
		})

		r.Route("/product-drafts", func(r chi.Router) {
			r.Post("/", controllers.StartDraft(productService, logg))
			r.Get("/{draftId}", controllers.GetDraft(productService, logg))
			r.Put("/{draftId}", controllers.UpdateDraft(productService, logg))
			r.Post("/{draftId}/submit", controllers.SubmitDraft(productService, logg))
		})

		r.Route("/pricing-rules", func(r chi.Router) {
			r.Get("/", controllers.ListPricingRules(pricingService, logg))
			r.Post("/", controllers.CreatePricingRule(pricingService, logg))
			r.Post("/preview", controllers.PreviewPricingRule(pricingService, logg))
			r.Get("/{ruleId}", controllers.GetPricingRule(pricingService, logg))
			r.Delete("/{ruleId}", controllers.DeletePricingRule(pricingService, logg))
		})
	})

	return r
}
