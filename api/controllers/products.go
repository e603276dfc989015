package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/jewelcraft-backend/api/responses"
	"github.com/angelmondragon/jewelcraft-backend/api/validators"
	product "github.com/angelmondragon/jewelcraft-backend/internal/products"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
)

type createProductRequest struct {
	ProductType      string             `json:"product_type" validate:"required"`
	Draft            validation.Draft   `json:"draft"`
	DefaultVariantID *string            `json:"default_variant_id"`
	PriceSheet       product.PriceSheet `json:"price_sheet"`
}

func (req createProductRequest) toInput() (product.CreateProductInput, error) {
	productType, err := enums.ParseProductType(strings.TrimSpace(req.ProductType))
	if err != nil {
		return product.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_type")
	}
	return product.CreateProductInput{
		ProductType:      productType,
		Draft:            req.Draft,
		DefaultVariantID: req.DefaultVariantID,
		PriceSheet:       req.PriceSheet,
	}, nil
}

// PreviewVariants regenerates the variant matrix for a selection edit.
func PreviewVariants(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var payload product.PreviewVariantsInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.PreviewVariants(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ValidateProduct runs the full tab sweep without saving anything.
func ValidateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var draft validation.Draft
		if err := validators.DecodeJSONBody(r, &draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.ValidateDraft(r.Context(), draft))
	}
}

func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ListProducts pages products newest first, optionally filtered by ?product_type=.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := product.ListProductsInput{Pagination: params}
		if raw := strings.TrimSpace(r.URL.Query().Get("product_type")); raw != "" {
			productType, err := enums.ParseProductType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_type"))
				return
			}
			input.ProductType = &productType
		}
		out, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, out.Products, out.NextCursor)
	}
}
