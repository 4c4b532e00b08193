package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entries []models.LedgerEntry) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) CreateBatch(ctx context.Context, entries []models.LedgerEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entries)
	}
	return nil
}

func (f *fakeRepository) ListByOrderID(ctx context.Context, orderID string) ([]models.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeRepository) SumByKey(ctx context.Context) ([]Sum, error) {
	return nil, nil
}

func (f *fakeRepository) DeleteAll(ctx context.Context) error {
	return nil
}

func TestService_AppendBuildsEntries(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created []models.LedgerEntry
	repo.createFn = func(ctx context.Context, entries []models.LedgerEntry) error {
		created = entries
		return nil
	}

	got, err := svc.Append(context.Background(), &gorm.DB{},
		EntryInput{Category: enums.LedgerCategoryLiquid, SubType: "red_ml", Quantity: 500, OrderID: "order-1", Source: enums.LedgerSourceBarrels},
		EntryInput{Category: enums.LedgerCategoryGold, Quantity: -100, OrderID: "order-1", Source: enums.LedgerSourceBarrels},
	)
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if len(got) != 2 || len(created) != 2 {
		t.Fatalf("expected 2 entries, got %d returned and %d persisted", len(got), len(created))
	}
	if created[0].SubType == nil || *created[0].SubType != "red_ml" {
		t.Fatalf("expected red_ml sub type, got %v", created[0].SubType)
	}
	if created[1].SubType != nil {
		t.Fatalf("gold entry should not carry a sub type")
	}
	if created[1].OrderID == nil || *created[1].OrderID != "order-1" {
		t.Fatalf("expected order id on gold entry")
	}
}

func TestService_AppendValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	cases := []struct {
		name  string
		input EntryInput
	}{
		{name: "zero quantity", input: EntryInput{Category: enums.LedgerCategoryGold, Quantity: 0, Source: enums.LedgerSourceAdmin}},
		{name: "unknown category", input: EntryInput{Category: "silver", Quantity: 1, Source: enums.LedgerSourceAdmin}},
		{name: "unknown source", input: EntryInput{Category: enums.LedgerCategoryGold, Quantity: 1, Source: "gift"}},
		{name: "potion without sku", input: EntryInput{Category: enums.LedgerCategoryPotion, Quantity: 1, Source: enums.LedgerSourceBottler}},
		{name: "unknown color", input: EntryInput{Category: enums.LedgerCategoryLiquid, SubType: "purple_ml", Quantity: 1, Source: enums.LedgerSourceBarrels}},
	}
	for _, tc := range cases {
		if _, err := svc.Append(context.Background(), &gorm.DB{}, tc.input); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	if _, err := svc.Append(context.Background(), nil, EntryInput{Category: enums.LedgerCategoryGold, Quantity: 1, Source: enums.LedgerSourceAdmin}); err == nil {
		t.Fatal("expected error when no transaction is supplied")
	}
}

func TestService_AppendPropagatesRepoError(t *testing.T) {
	repo := &fakeRepository{createFn: func(ctx context.Context, entries []models.LedgerEntry) error {
		return errors.New("db down")
	}}
	svc, _ := NewService(repo)
	if _, err := svc.Append(context.Background(), &gorm.DB{}, EntryInput{Category: enums.LedgerCategoryGold, Quantity: 5, Source: enums.LedgerSourceCheckout}); err == nil {
		t.Fatal("expected repo error to surface")
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestRepository_SumAndList(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:ledger_repo?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.LedgerEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()
	if err := conn.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Append(ctx, tx,
			EntryInput{Category: enums.LedgerCategoryGold, SubType: "initial", Quantity: 100, OrderID: "reset", Source: enums.LedgerSourceAdmin},
			EntryInput{Category: enums.LedgerCategoryGold, Quantity: -25, OrderID: "b-1", Source: enums.LedgerSourceBarrels},
			EntryInput{Category: enums.LedgerCategoryLiquid, SubType: "red_ml", Quantity: 1000, OrderID: "b-1", Source: enums.LedgerSourceBarrels},
			EntryInput{Category: enums.LedgerCategoryLiquid, SubType: "red_ml", Quantity: -300, OrderID: "p-1", Source: enums.LedgerSourceBottler},
			EntryInput{Category: enums.LedgerCategoryPotion, SubType: "RED_POTION_0", Quantity: 3, OrderID: "p-1", Source: enums.LedgerSourceBottler},
		)
		return err
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	totals, err := svc.Totals(ctx, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Gold() != 75 {
		t.Fatalf("expected gold 75, got %d", totals.Gold())
	}
	if totals.Liquid(enums.LiquidColorRed) != 700 {
		t.Fatalf("expected red 700, got %d", totals.Liquid(enums.LiquidColorRed))
	}
	if totals.Potion("RED_POTION_0") != 3 {
		t.Fatalf("expected 3 red potions, got %d", totals.Potion("RED_POTION_0"))
	}
	if skus := totals.PotionSKUs(); len(skus) != 1 || skus[0] != "RED_POTION_0" {
		t.Fatalf("unexpected potion skus %v", skus)
	}

	entries, err := svc.ListByOrder(ctx, "b-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for b-1, got %d", len(entries))
	}

	if err := conn.Transaction(func(tx *gorm.DB) error { return svc.Clear(ctx, tx) }); err != nil {
		t.Fatalf("clear: %v", err)
	}
	totals, _ = svc.Totals(ctx, nil)
	if totals.Gold() != 0 {
		t.Fatalf("expected empty ledger after clear, got gold %d", totals.Gold())
	}
}
