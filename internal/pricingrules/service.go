package pricingrules

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/metrics"
	"github.com/angelmondragon/jewelcraft-backend/pkg/pagination"
	"github.com/angelmondragon/jewelcraft-backend/pkg/redis"
)

// Service exposes pricing rule management and previews.
type Service interface {
	CreateRule(ctx context.Context, input CreateRuleInput) (*RuleDTO, error)
	GetRule(ctx context.Context, id uuid.UUID) (*RuleDTO, error)
	ListRules(ctx context.Context, params pagination.Params) (*RuleList, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	PreviewApplicableProducts(ctx context.Context, input PreviewInput) (*Preview, error)
}

type ruleStore interface {
	Create(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error)
}

type productSource interface {
	ListWithVariantsByType(ctx context.Context, productType enums.ProductType, limit int) ([]models.Product, error)
	CatalogVersion(ctx context.Context, productType enums.ProductType) (string, error)
}

type previewCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PreviewKey(digest string) string
}

// Options tunes preview behavior.
type Options struct {
	CacheTTL    time.Duration
	MaxProducts int
	Metrics     *metrics.CatalogMetrics
}

type service struct {
	rules    ruleStore
	products productSource
	cache    previewCache
	opts     Options
}

// NewService constructs a pricing rule service. cache may be nil to disable preview memoization.
func NewService(rules ruleStore, products productSource, cache previewCache, opts Options) (Service, error) {
	if rules == nil {
		return nil, fmt.Errorf("pricing rule repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if opts.MaxProducts <= 0 {
		opts.MaxProducts = 500
	}
	return &service{
		rules:    rules,
		products: products,
		cache:    cache,
		opts:     opts,
	}, nil
}

// CreateRule validates every condition and the actions, reporting all problems at once.
func (s *service) CreateRule(ctx context.Context, input CreateRuleInput) (*RuleDTO, error) {
	var errs error
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	if !input.ProductType.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("product_type %q is invalid", input.ProductType))
	}
	conditions, condErr := DecodeConditions(input.Conditions)
	errs = multierr.Append(errs, condErr)
	errs = multierr.Append(errs, input.Actions.Validate())
	if errs != nil {
		return nil, validationError("pricing rule is invalid", errs)
	}

	encoded := make([]ConditionState, 0, len(conditions))
	for _, c := range conditions {
		state, err := EncodeCondition(c)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode condition")
		}
		encoded = append(encoded, state)
	}
	conditionsJSON, err := json.Marshal(encoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode conditions")
	}
	actionsJSON, err := json.Marshal(input.Actions)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode actions")
	}

	created, err := s.rules.Create(ctx, &models.PricingRule{
		Name:        name,
		ProductType: input.ProductType,
		Conditions:  conditionsJSON,
		Actions:     actionsJSON,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pricing rule")
	}
	dto, err := toRuleDTO(*created)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map pricing rule")
	}
	return &dto, nil
}

func (s *service) GetRule(ctx context.Context, id uuid.UUID) (*RuleDTO, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing rule")
	}
	dto, err := toRuleDTO(*rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map pricing rule")
	}
	return &dto, nil
}

func (s *service) ListRules(ctx context.Context, params pagination.Params) (*RuleList, error) {
	rows, next, err := s.rules.List(ctx, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pricing rules")
	}
	out := &RuleList{Rules: make([]RuleDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		dto, err := toRuleDTO(row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map pricing rule")
		}
		out.Rules = append(out.Rules, dto)
	}
	return out, nil
}

func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.rules.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pricing rule")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
	}
	return nil
}

// PreviewApplicableProducts evaluates a draft rule against stored products of its type.
// Draft conditions are ignored and malformed ones never match.
func (s *service) PreviewApplicableProducts(ctx context.Context, input PreviewInput) (*Preview, error) {
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is invalid").
			WithDetails(map[string]any{"product_type": input.ProductType})
	}

	started := time.Now()
	key := ""
	if s.cache != nil {
		version, err := s.products.CatalogVersion(ctx, input.ProductType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog version")
		}
		digest, err := previewDigest(input, version)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash preview input")
		}
		key = s.cache.PreviewKey(digest)
		if cached, ok := s.loadCached(ctx, key); ok {
			s.opts.Metrics.ObservePreview(true, time.Since(started), cached.MatchedVariants)
			return cached, nil
		}
	}

	products, err := s.products.ListWithVariantsByType(ctx, input.ProductType, s.opts.MaxProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products for preview")
	}
	snapshots := make([]ProductSnapshot, 0, len(products))
	for _, p := range products {
		snap, err := toSnapshot(p)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored variant")
		}
		snapshots = append(snapshots, snap)
	}

	preview := BuildPreview(snapshots, CompileConditions(input.Conditions), input.Actions)
	s.opts.Metrics.ObservePreview(false, time.Since(started), preview.MatchedVariants)

	if key != "" {
		if payload, err := json.Marshal(preview); err == nil {
			// Cache failures only cost a recomputation.
			_ = s.cache.Set(ctx, key, string(payload), s.opts.CacheTTL)
		}
	}
	return &preview, nil
}

func (s *service) loadCached(ctx context.Context, key string) (*Preview, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var preview Preview
	if err := json.Unmarshal([]byte(raw), &preview); err != nil {
		return nil, false
	}
	return &preview, true
}

// previewDigest hashes the parts of the input that influence the result together with the
// catalog version, so new products invalidate earlier entries.
func previewDigest(input PreviewInput, catalogVersion string) (string, error) {
	complete := CompleteConditions(input.Conditions)
	canonical := make([]ConditionState, 0, len(complete))
	for _, c := range complete {
		var compact bytes.Buffer
		if err := json.Compact(&compact, c.Value); err != nil {
			return "", err
		}
		canonical = append(canonical, ConditionState{Type: c.Type, Value: compact.Bytes()})
	}
	payload, err := json.Marshal(struct {
		ProductType    enums.ProductType `json:"product_type"`
		Conditions     []ConditionState  `json:"conditions"`
		Actions        Actions           `json:"actions"`
		CatalogVersion string            `json:"catalog_version"`
	}{input.ProductType, canonical, input.Actions, catalogVersion})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func validationError(message string, err error) error {
	msgs := make([]string, 0)
	for _, e := range multierr.Errors(err) {
		msgs = append(msgs, e.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).
		WithDetails(map[string]any{"errors": msgs})
}

var _ previewCache = (*redis.Client)(nil)
