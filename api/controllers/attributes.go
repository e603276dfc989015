package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/jewelcraft-backend/api/responses"
	"github.com/angelmondragon/jewelcraft-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/logger"
)

// ListAttributes returns the reference values of one kind for builder dropdowns.
func ListAttributes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		values, err := svc.ListAttributes(r.Context(), chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, values)
	}
}
