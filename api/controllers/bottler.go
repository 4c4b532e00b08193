package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

type potionMixRequest struct {
	PotionType []int `json:"potion_type" validate:"required,potion_ratio"`
	Quantity   int   `json:"quantity" validate:"min=1,max=10000"`
}

// BottlerDeliver bottles the delivered mixes under their order id.
func BottlerDeliver(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload []potionMixRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixes := make([]types.PotionMix, 0, len(payload))
		for _, p := range payload {
			var ratio types.PotionType
			copy(ratio[:], p.PotionType)
			mixes = append(mixes, types.PotionMix{PotionType: ratio, Quantity: p.Quantity})
		}

		result, err := svc.ApplyBottling(r.Context(), orderID, mixes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BottlerPlan proposes potion mixes from the liquid on hand.
func BottlerPlan(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		plan, err := svc.PlanBottles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}
