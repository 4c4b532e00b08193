package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

type barrelRequest struct {
	SKU         string    `json:"sku" validate:"required,sku"`
	MLPerBarrel int       `json:"ml_per_barrel" validate:"min=1,max=100000"`
	PotionType  []float64 `json:"potion_type" validate:"required,barrel_ratio"`
	Price       int       `json:"price" validate:"min=0,max=100000"`
	Quantity    int       `json:"quantity" validate:"min=0,max=10000"`
}

func toBarrels(in []barrelRequest) []types.Barrel {
	out := make([]types.Barrel, 0, len(in))
	for _, b := range in {
		barrel := types.Barrel{
			SKU:         b.SKU,
			MLPerBarrel: b.MLPerBarrel,
			Price:       b.Price,
			Quantity:    b.Quantity,
		}
		copy(barrel.PotionType[:], b.PotionType)
		out = append(out, barrel)
	}
	return out
}

func inventoryUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable")
}

// BarrelsDeliver applies a wholesale barrel delivery under its order id.
func BarrelsDeliver(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		orderID, err := validators.ParseOrderID(chi.URLParam(r, "order_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload []barrelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ApplyLiquidDelivery(r.Context(), orderID, toBarrels(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BarrelsPlan proposes what to buy from the offered wholesale catalog.
func BarrelsPlan(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}

		var payload []barrelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.PlanBarrels(r.Context(), toBarrels(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}
