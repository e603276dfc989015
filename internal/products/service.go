package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	"github.com/angelmondragon/jewelcraft-backend/internal/selection"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
	"github.com/angelmondragon/jewelcraft-backend/pkg/metrics"
)

const skuConstraint = "idx_products_sku"

// Service exposes the product builder: variant previews, drafts and product creation.
type Service interface {
	PreviewVariants(ctx context.Context, input PreviewVariantsInput) (*VariantPreview, error)
	ValidateDraft(ctx context.Context, draft validation.Draft) validation.Result
	CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error)

	StartDraft(ctx context.Context, input StartDraftInput) (*DraftSession, error)
	GetDraft(ctx context.Context, id string) (*DraftSession, error)
	UpdateDraft(ctx context.Context, id string, input UpdateDraftInput) (*DraftSession, error)
	SubmitDraft(ctx context.Context, id string, sheet PriceSheet) (*CreateProductResult, error)
}

// StartDraftInput seeds a new builder session.
type StartDraftInput struct {
	ProductType enums.ProductType `json:"product_type"`
	Draft       validation.Draft  `json:"draft"`
}

// FieldRef names one edited field on a tab.
type FieldRef struct {
	Tab   enums.FormTab `json:"tab"`
	Field string        `json:"field"`
}

// UpdateDraftInput replaces the draft content. EditedFields lists the fields the user touched
// since the last save; their standing errors are cleared without rerunning predicates.
type UpdateDraftInput struct {
	ProductType      *enums.ProductType `json:"product_type"`
	Draft            validation.Draft   `json:"draft"`
	DefaultVariantID *string            `json:"default_variant_id"`
	ActiveTab        *enums.FormTab     `json:"active_tab"`
	EditedFields     []FieldRef         `json:"edited_fields"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type variantLabeler interface {
	LabelVariants(ctx context.Context, list []variants.Variant) ([]catalog.VariantRow, error)
}

// Options carries optional collaborators.
type Options struct {
	Drafts  *DraftStore
	Metrics *metrics.CatalogMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	labeler variantLabeler
	opts    Options
}

// NewService constructs the product service. Draft operations fail with DEPENDENCY_ERROR when
// opts.Drafts is nil.
func NewService(repo *Repository, tx txRunner, labeler variantLabeler, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if labeler == nil {
		return nil, fmt.Errorf("variant labeler required")
	}
	return &service{repo: repo, tx: tx, labeler: labeler, opts: opts}, nil
}

// PreviewVariants regenerates the matrix for a selection edit and repairs the default.
func (s *service) PreviewVariants(ctx context.Context, input PreviewVariantsInput) (*VariantPreview, error) {
	state := variants.OnSelectionChanged(variants.State{DefaultVariantID: input.DefaultVariantID}, input.Selection)
	if err := ambiguousVariants(state.Variants); err != nil {
		return nil, err
	}
	rows, err := s.labeler.LabelVariants(ctx, state.Variants)
	if err != nil {
		return nil, err
	}
	s.opts.Metrics.ObserveVariants("preview", len(state.Variants))
	return &VariantPreview{
		Selection:        state.Selection,
		Variants:         state.Variants,
		Count:            len(state.Variants),
		DefaultVariantID: state.DefaultVariantID,
		Rows:             rows,
	}, nil
}

func (s *service) ValidateDraft(_ context.Context, draft validation.Draft) validation.Result {
	return validation.ValidateAll(draft)
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductResult, error) {
	res := validation.ValidateAll(input.Draft)
	if !res.Submittable() {
		s.opts.Metrics.IncSubmission("blocked")
		return nil, blockedError(res)
	}
	return s.persist(ctx, input.ProductType, input.Draft, input.DefaultVariantID, input.PriceSheet)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto, err := toProductDTO(*product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map product")
	}
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error) {
	if input.ProductType != nil && !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is invalid")
	}
	rows, next, err := s.repo.List(ctx, input)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := &ProductList{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		dto, err := toProductDTO(row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map product")
		}
		out.Products = append(out.Products, dto)
	}
	return out, nil
}

func (s *service) StartDraft(ctx context.Context, input StartDraftInput) (*DraftSession, error) {
	if s.opts.Drafts == nil {
		return nil, errDraftsDisabled()
	}
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is invalid")
	}
	session := &DraftSession{
		ID:          uuid.NewString(),
		ProductType: input.ProductType,
		Draft:       input.Draft,
		Form:        validation.NewFormState(),
	}
	session.applyVariantState(variants.OnSelectionChanged(variants.State{}, input.Draft.Selection))
	if err := s.opts.Drafts.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) GetDraft(ctx context.Context, id string) (*DraftSession, error) {
	if s.opts.Drafts == nil {
		return nil, errDraftsDisabled()
	}
	return s.opts.Drafts.Load(ctx, id)
}

// UpdateDraft stores new draft content. A metal or stone change regenerates the variants and
// repairs the default in the same step; edited fields lose their standing errors.
func (s *service) UpdateDraft(ctx context.Context, id string, input UpdateDraftInput) (*DraftSession, error) {
	if s.opts.Drafts == nil {
		return nil, errDraftsDisabled()
	}
	session, err := s.opts.Drafts.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.ProductID != nil {
		return nil, errDraftSubmitted(session)
	}
	if input.ProductType != nil {
		if !input.ProductType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is invalid")
		}
		session.ProductType = *input.ProductType
	}

	state := session.variantState()
	changed, err := selectionChanged(session.Draft.Selection, input.Draft.Selection)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compare selections")
	}
	if changed {
		state = variants.OnSelectionChanged(state, input.Draft.Selection)
	}
	if input.DefaultVariantID != nil {
		next, ok := state.SetDefault(*input.DefaultVariantID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "default variant is not generated").
				WithDetails(map[string]any{"default_variant_id": *input.DefaultVariantID})
		}
		state = next
	}
	session.Draft = input.Draft
	session.applyVariantState(state)

	form := session.Form
	for _, ref := range input.EditedFields {
		if !ref.Tab.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "edited field references an unknown tab").
				WithDetails(map[string]any{"tab": ref.Tab})
		}
		form = form.ValidateField(ref.Tab, ref.Field)
	}
	if len(input.EditedFields) > 0 || changed {
		form = form.Edited()
	}
	if input.ActiveTab != nil {
		form = form.SelectTab(*input.ActiveTab)
	}
	session.Form = form

	if err := s.opts.Drafts.Save(ctx, session); err != nil {
		return nil, err
	}
	if changed {
		s.opts.Metrics.ObserveVariants("draft", len(session.Variants))
	}
	return session, nil
}

// SubmitDraft runs the full validation sweep. A blocked draft keeps its active tab and records
// the flagged tabs; a submittable one is persisted and marked submitted.
func (s *service) SubmitDraft(ctx context.Context, id string, sheet PriceSheet) (*CreateProductResult, error) {
	if s.opts.Drafts == nil {
		return nil, errDraftsDisabled()
	}
	session, err := s.opts.Drafts.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.ProductID != nil {
		return nil, errDraftSubmitted(session)
	}

	form, res := session.Form.Submit(session.Draft)
	session.Form = form
	if !res.Submittable() {
		if err := s.opts.Drafts.Save(ctx, session); err != nil {
			return nil, err
		}
		s.opts.Metrics.IncSubmission("blocked")
		return nil, blockedError(res)
	}

	result, err := s.persist(ctx, session.ProductType, session.Draft, session.DefaultVariantID, sheet)
	if err != nil {
		return nil, err
	}
	session.ProductID = &result.Product.ID
	if err := s.opts.Drafts.Save(ctx, session); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) persist(ctx context.Context, productType enums.ProductType, draft validation.Draft, defaultID *string, sheet PriceSheet) (*CreateProductResult, error) {
	if !productType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is invalid").
			WithDetails(map[string]any{"product_type": productType})
	}

	state := variants.OnSelectionChanged(variants.State{DefaultVariantID: defaultID}, draft.Selection)
	if len(state.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selection generates no variants")
	}
	if err := ambiguousVariants(state.Variants); err != nil {
		return nil, err
	}
	priced, missing := priceVariants(state.Selection, state.Variants, sheet)
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price sheet is incomplete").
			WithDetails(map[string]any{"missing_rates": missing})
	}

	product, err := buildProduct(productType, draft, state, priced)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		exists, err := txRepo.SKUExists(ctx, product.SKU)
		if err != nil {
			return err
		}
		if exists {
			return errSKUTaken(product.SKU)
		}
		_, err = txRepo.Create(ctx, product)
		return err
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err, skuConstraint) {
			err = errSKUTaken(product.SKU)
		}
		if typed := pkgerrors.As(err); typed != nil {
			if typed.Code() == pkgerrors.CodeConflict {
				s.opts.Metrics.IncSubmission("conflict")
			}
			return nil, typed
		}
		s.opts.Metrics.IncSubmission("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.opts.Metrics.ObserveVariants("submit", len(state.Variants))
	s.opts.Metrics.IncSubmission("created")
	if s.opts.Logger != nil {
		logCtx := s.opts.Logger.WithProductID(ctx, product.ID.String())
		logCtx = s.opts.Logger.WithField(logCtx, "variant_count", len(state.Variants))
		s.opts.Logger.Info(logCtx, "product created")
	}

	dto, err := toProductDTO(*product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map product")
	}
	return &CreateProductResult{
		Product:           dto,
		GeneratedVariants: state.Variants,
		DefaultVariantID:  *state.DefaultVariantID,
	}, nil
}

func buildProduct(productType enums.ProductType, draft validation.Draft, state variants.State, priced []pricedVariant) (*models.Product, error) {
	selectionJSON, err := json.Marshal(state.Selection)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		ID:                uuid.New(),
		SKU:               strings.TrimSpace(draft.Basic.SKU),
		Title:             strings.TrimSpace(draft.Basic.Title),
		ProductType:       productType,
		CategoryIDs:       selection.Unique(draft.Attributes.CategoryIDs),
		TagIDs:            selection.Unique(draft.Attributes.TagIDs),
		BadgeIDs:          selection.Unique(draft.Attributes.BadgeIDs),
		DefaultVariantKey: state.DefaultVariantID,
		Length:            draft.Basic.Length,
		Width:             draft.Basic.Width,
		Height:            draft.Basic.Height,
		HasEngraving:      draft.Basic.HasEngraving,
		HasSizeChart:      draft.Basic.HasSizeChart,
		Selection:         selectionJSON,
		Variants:          make([]models.ProductVariant, 0, len(priced)),
	}
	if draft.Basic.HasEngraving {
		product.EngravingMaxChars = draft.Basic.EngravingMaxChars
	}
	if draft.Basic.HasSizeChart {
		product.SizeChartGroupID = draft.Basic.SizeChartGroupID
	}

	for i, pv := range priced {
		components, err := json.Marshal(pv.Components)
		if err != nil {
			return nil, err
		}
		metadata, err := json.Marshal(variantMetadata(state.Selection, pv.Variant))
		if err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			ProductID:       product.ID,
			VariantKey:      pv.Variant.ID,
			Price:           pv.Price,
			PriceComponents: components,
			Metadata:        metadata,
			IsDefault:       state.DefaultVariantID != nil && *state.DefaultVariantID == pv.Variant.ID,
			Position:        i,
		})
	}
	return product, nil
}

func selectionChanged(prev, next selection.Selection) (bool, error) {
	a, err := json.Marshal(prev)
	if err != nil {
		return false, err
	}
	b, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(a, b), nil
}

func ambiguousVariants(list []variants.Variant) error {
	dups := variants.DuplicateIDs(list)
	if len(dups) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "selection generates colliding variant keys").
		WithDetails(map[string]any{"duplicate_variant_ids": dups})
}

func blockedError(res validation.Result) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "product form has invalid tabs").
		WithDetails(map[string]any{
			"invalid_tabs": res.InvalidTabs,
			"errors":       res.Errors,
		})
}

func errSKUTaken(sku string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists").
		WithDetails(map[string]any{"sku": sku})
}

func errDraftSubmitted(session *DraftSession) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "draft already submitted").
		WithDetails(map[string]any{"product_id": session.ProductID})
}

func errDraftsDisabled() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "draft sessions are not configured")
}
