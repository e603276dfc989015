package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
)

const labelSeparator = " / "

type attributeStore interface {
	ListByKind(ctx context.Context, kind enums.AttributeKind) ([]models.AttributeValue, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.AttributeValue, error)
}

// Service exposes attribute lookups and variant labelling.
type Service interface {
	ListAttributes(ctx context.Context, kind string) ([]AttributeDTO, error)
	LabelVariants(ctx context.Context, list []variants.Variant) ([]VariantRow, error)
}

type service struct {
	repo attributeStore
}

// NewService builds the catalog service.
func NewService(repo attributeStore) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "attribute repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAttributes(ctx context.Context, kind string) ([]AttributeDTO, error) {
	parsed, err := enums.ParseAttributeKind(strings.TrimSpace(kind))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid attribute kind")
	}
	rows, err := s.repo.ListByKind(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attributes")
	}
	out := make([]AttributeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAttributeDTO(row))
	}
	return out, nil
}

// LabelVariants resolves the attribute names each variant references. A variant pointing at an
// ID missing from the reference data is reported as an internal error listing the missing IDs.
func (s *service) LabelVariants(ctx context.Context, list []variants.Variant) ([]VariantRow, error) {
	rows := make([]VariantRow, 0, len(list))
	if len(list) == 0 {
		return rows, nil
	}

	ids := referencedIDs(list)
	values, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attribute values")
	}
	names := make(map[string]string, len(values))
	for _, v := range values {
		names[v.ID] = v.Name
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "variant references unknown attribute values").
			WithDetails(map[string]any{"missing_ids": missing})
	}

	for _, v := range list {
		rows = append(rows, VariantRow{
			ID:          v.ID,
			Label:       buildLabel(v, names),
			MetalWeight: v.MetalWeight,
		})
	}
	return rows, nil
}

func referencedIDs(list []variants.Variant) []string {
	seen := map[string]struct{}{}
	add := func(id string) {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	for _, v := range list {
		add(v.MetalTypeID)
		add(v.MetalColorID)
		add(v.MetalPurityID)
		if v.DiamondClarityColorID != nil {
			add(*v.DiamondClarityColorID)
		}
		if v.GemstoneColorID != nil {
			add(*v.GemstoneColorID)
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func buildLabel(v variants.Variant, names map[string]string) string {
	parts := []string{names[v.MetalTypeID], names[v.MetalColorID], names[v.MetalPurityID]}
	if v.DiamondClarityColorID != nil {
		parts = append(parts, names[*v.DiamondClarityColorID])
	}
	if v.GemstoneColorID != nil {
		parts = append(parts, names[*v.GemstoneColorID])
	}
	return strings.Join(parts, labelSeparator)
}

// VariantRow is one line of the variant review table.
type VariantRow struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	MetalWeight decimal.Decimal `json:"metal_weight"`
}
