package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// Catalog lists the in-stock storefront offers.
func Catalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		items, err := svc.Storefront(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
