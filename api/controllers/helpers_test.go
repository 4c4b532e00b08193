package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope responses.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

type stubInventoryService struct {
	inventory.Service

	deliveryOrderID string
	barrels         []types.Barrel
	mixes           []types.PotionMix
	purchase        inventory.CapacityPurchase
	plannedBarrels  []types.BarrelOrder
	plannedBottles  []types.PotionMix
	audit           *inventory.Audit
	diffs           []inventory.Discrepancy
	entries         []models.LedgerEntry
	err             error
	resetCalls      int
}

func (s *stubInventoryService) ApplyLiquidDelivery(_ context.Context, orderID string, barrels []types.Barrel) (*inventory.DeliveryResult, error) {
	s.deliveryOrderID = orderID
	s.barrels = barrels
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.DeliveryResult{OrderID: orderID, Outcome: "applied"}, nil
}

func (s *stubInventoryService) ApplyBottling(_ context.Context, orderID string, mixes []types.PotionMix) (*inventory.BottlingResult, error) {
	s.deliveryOrderID = orderID
	s.mixes = mixes
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.BottlingResult{OrderID: orderID, Outcome: "applied"}, nil
}

func (s *stubInventoryService) ApplyCapacityPurchase(_ context.Context, orderID string, purchase inventory.CapacityPurchase) (*inventory.CapacityResult, error) {
	s.deliveryOrderID = orderID
	s.purchase = purchase
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.CapacityResult{OrderID: orderID, Outcome: "applied", GoldPaid: purchase.Cost()}, nil
}

func (s *stubInventoryService) PlanBarrels(_ context.Context, wholesale []types.Barrel) ([]types.BarrelOrder, error) {
	s.barrels = wholesale
	return s.plannedBarrels, s.err
}

func (s *stubInventoryService) PlanBottles(context.Context) ([]types.PotionMix, error) {
	return s.plannedBottles, s.err
}

func (s *stubInventoryService) PlanCapacity(context.Context) (*inventory.CapacityPurchase, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.CapacityPurchase{PotionCapacity: 1, MLCapacity: 1}, nil
}

func (s *stubInventoryService) Audit(context.Context) (*inventory.Audit, error) {
	return s.audit, s.err
}

func (s *stubInventoryService) Reconcile(context.Context) ([]inventory.Discrepancy, error) {
	return s.diffs, s.err
}

func (s *stubInventoryService) OrderLedger(_ context.Context, orderID string) ([]models.LedgerEntry, error) {
	s.deliveryOrderID = orderID
	return s.entries, s.err
}

func (s *stubInventoryService) Reset(context.Context) error {
	s.resetCalls++
	return s.err
}
