package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

type capacityRequest struct {
	PotionCapacity int `json:"potion_capacity" validate:"min=0,max=10"`
	MLCapacity     int `json:"ml_capacity" validate:"min=0,max=10"`
}

func InventoryAudit(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		audit, err := svc.Audit(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, audit)
	}
}

func InventoryPlan(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		plan, err := svc.PlanCapacity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

// InventoryDeliver buys capacity units under the given order id.
func InventoryDeliver(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload capacityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ApplyCapacityPurchase(r.Context(), orderID, inventory.CapacityPurchase{
			PotionCapacity: payload.PotionCapacity,
			MLCapacity:     payload.MLCapacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// InventoryReconcile lists every snapshot row that disagrees with the ledger.
func InventoryReconcile(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		diffs, err := svc.Reconcile(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, diffs)
	}
}

func InventoryOrderLedger(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
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
		entries, err := svc.OrderLedger(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AdminReset wipes ledger, snapshots and processed orders back to the baseline.
func AdminReset(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, inventoryUnavailable())
			return
		}
		if err := svc.Reset(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
