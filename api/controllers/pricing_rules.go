package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/jewelcraft-backend/api/responses"
	"github.com/angelmondragon/jewelcraft-backend/api/validators"
	"github.com/angelmondragon/jewelcraft-backend/internal/pricingrules"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
)

type pricingRuleRequest struct {
	Name        string                        `json:"name" validate:"required,max=200"`
	ProductType string                        `json:"product_type" validate:"required"`
	Conditions  []pricingrules.ConditionState `json:"conditions"`
	Actions     pricingrules.Actions          `json:"actions"`
}

type rulePreviewRequest struct {
	ProductType string                        `json:"product_type" validate:"required"`
	Conditions  []pricingrules.ConditionState `json:"conditions"`
	Actions     pricingrules.Actions          `json:"actions"`
}

func parseProductType(raw string) (enums.ProductType, error) {
	productType, err := enums.ParseProductType(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_type")
	}
	return productType, nil
}

func CreatePricingRule(svc pricingrules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing rule service unavailable"))
			return
		}
		var payload pricingRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productType, err := parseProductType(payload.ProductType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.CreateRule(r.Context(), pricingrules.CreateRuleInput{
			Name:        payload.Name,
			ProductType: productType,
			Conditions:  payload.Conditions,
			Actions:     payload.Actions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

func GetPricingRule(svc pricingrules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing rule service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.GetRule(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

func ListPricingRules(svc pricingrules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing rule service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListRules(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Rules, list.NextCursor)
	}
}

func DeletePricingRule(svc pricingrules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing rule service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteRule(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}

// PreviewPricingRule lists the stored products a draft rule would reprice.
func PreviewPricingRule(svc pricingrules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing rule service unavailable"))
			return
		}
		var payload rulePreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productType, err := parseProductType(payload.ProductType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		preview, err := svc.PreviewApplicableProducts(r.Context(), pricingrules.PreviewInput{
			ProductType: productType,
			Conditions:  payload.Conditions,
			Actions:     payload.Actions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}
