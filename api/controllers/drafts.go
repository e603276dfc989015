package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/jewelcraft-backend/api/responses"
	"github.com/angelmondragon/jewelcraft-backend/api/validators"
	product "github.com/angelmondragon/jewelcraft-backend/internal/products"
	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
)

type startDraftRequest struct {
	ProductType string           `json:"product_type" validate:"required"`
	Draft       validation.Draft `json:"draft"`
}

type submitDraftRequest struct {
	PriceSheet product.PriceSheet `json:"price_sheet"`
}

func StartDraft(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var payload startDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productType, err := enums.ParseProductType(strings.TrimSpace(payload.ProductType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_type"))
			return
		}
		session, err := svc.StartDraft(r.Context(), product.StartDraftInput{ProductType: productType, Draft: payload.Draft})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

func GetDraft(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		session, err := svc.GetDraft(r.Context(), draftID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// UpdateDraft saves the full draft; edited_fields clears standing errors for those fields.
func UpdateDraft(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var payload product.UpdateDraftInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.UpdateDraft(r.Context(), draftID(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

func SubmitDraft(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var payload submitDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.SubmitDraft(r.Context(), draftID(r), payload.PriceSheet)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func draftID(r *http.Request) string {
	return validators.SanitizeString(chi.URLParam(r, "draftId"), 64)
}
