package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/cart"
	"github.com/angelmondragon/potionshop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

const searchFilterMaxLen = 64

type cartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type checkoutRequest struct {
	Payment string `json:"payment" validate:"max=256"`
}

type cartCreatedResponse struct {
	CartID int64 `json:"cart_id"`
}

type cartItemResponse struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type cartResponse struct {
	CartID         int64              `json:"cart_id"`
	CustomerID     string             `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	CharacterClass string             `json:"character_class"`
	Level          int                `json:"level"`
	CheckedOut     bool               `json:"checked_out"`
	Items          []cartItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}

func toCartResponse(record *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemResponse{SKU: item.PotionSKU, Quantity: item.Quantity})
	}
	return cartResponse{
		CartID:         record.ID,
		CustomerID:     record.CustomerID,
		CustomerName:   record.CustomerName,
		CharacterClass: record.CharacterClass,
		Level:          record.Level,
		CheckedOut:     record.CheckedOut,
		Items:          items,
		CreatedAt:      record.CreatedAt.UTC(),
	}
}

func cartUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
}

// CartCreate opens a cart for the posted customer.
func CartCreate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, cartUnavailable())
			return
		}

		var payload cart.CreateCartInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartCreatedResponse{CartID: record.ID})
	}
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, cartUnavailable())
			return
		}
		cartID, err := validators.ParseID(chi.URLParam(r, "cart_id"), "cart_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(record))
	}
}

// CartSetItem sets the quantity of one sku in the cart.
func CartSetItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, cartUnavailable())
			return
		}
		cartID, err := validators.ParseID(chi.URLParam(r, "cart_id"), "cart_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku, err := validators.ParseSKU(chi.URLParam(r, "sku"), "sku")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.SetItemQuantity(r.Context(), cartID, sku, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartCheckout sells the cart contents.
func CartCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		cartID, err := validators.ParseID(chi.URLParam(r, "cart_id"), "cart_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), cartID, checkout.CheckoutInput{Payment: payload.Payment})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartSearch pages through cart lines matching the query filters.
func CartSearch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, cartUnavailable())
			return
		}

		result, err := svc.Search(r.Context(), cart.SearchInput{
			CustomerName: validators.QueryString(r, "customer_name", searchFilterMaxLen),
			PotionSKU:    validators.QueryString(r, "potion_sku", searchFilterMaxLen),
			SortCol:      validators.QueryString(r, "sort_col", searchFilterMaxLen),
			SortOrder:    validators.QueryString(r, "sort_order", searchFilterMaxLen),
			SearchPage:   validators.QueryString(r, "search_page", 256),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartVisits counts the customers that walked through during one visit.
func CartVisits(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, cartUnavailable())
			return
		}
		visitID := validators.SanitizeString(chi.URLParam(r, "visit_id"), 128)

		var payload []cart.Customer
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.RecordVisit(r.Context(), visitID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
