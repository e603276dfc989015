package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records variant generation, form submission and pricing preview activity.
type CatalogMetrics struct {
	variantsGenerated *prometheus.HistogramVec
	submissions       *prometheus.CounterVec
	previewDuration   *prometheus.HistogramVec
	previewMatches    prometheus.Histogram
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	variantsGenerated := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "variants_generated",
		Help:    "Number of variants produced per matrix generation.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"source"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_form_submissions_total",
		Help: "Product form submissions by outcome.",
	}, []string{"status"})
	previewDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_preview_duration_seconds",
		Help:    "Duration of applicable-product previews in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"cache"})
	previewMatches := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_preview_matched_variants",
		Help:    "Number of variants matched per pricing rule preview.",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})
	reg.MustRegister(variantsGenerated, submissions, previewDuration, previewMatches)
	return &CatalogMetrics{
		variantsGenerated: variantsGenerated,
		submissions:       submissions,
		previewDuration:   previewDuration,
		previewMatches:    previewMatches,
	}
}

// ObserveVariants records the size of a generated variant matrix.
func (m *CatalogMetrics) ObserveVariants(source string, count int) {
	if m == nil || m.variantsGenerated == nil {
		return
	}
	m.variantsGenerated.WithLabelValues(normalizeLabel(source)).Observe(float64(count))
}

// IncSubmission counts a submit attempt by its resulting form status.
func (m *CatalogMetrics) IncSubmission(status string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObservePreview records a preview's duration and matched variant count.
func (m *CatalogMetrics) ObservePreview(cacheHit bool, duration time.Duration, matched int) {
	if m == nil || m.previewDuration == nil {
		return
	}
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	m.previewDuration.WithLabelValues(cache).Observe(duration.Seconds())
	m.previewMatches.Observe(float64(matched))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
