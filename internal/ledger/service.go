package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"gorm.io/gorm"
)

// Service appends and aggregates ledger entries. Appends always run inside the
// caller's transaction so the entry commits with the snapshot change it records.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, inputs ...EntryInput) ([]models.LedgerEntry, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.LedgerEntry, error)
	Totals(ctx context.Context, tx *gorm.DB) (Totals, error)
	Clear(ctx context.Context, tx *gorm.DB) error
}

type service struct {
	repo Repository
}

// EntryInput captures the immutable data a ledger entry requires.
type EntryInput struct {
	Category enums.LedgerCategory
	SubType  string
	Quantity int
	OrderID  string
	Source   enums.LedgerSource
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, inputs ...EntryInput) ([]models.LedgerEntry, error) {
	if tx == nil {
		return nil, fmt.Errorf("ledger append requires a transaction")
	}

	entries := make([]models.LedgerEntry, 0, len(inputs))
	for i, input := range inputs {
		entry, err := buildEntry(input)
		if err != nil {
			return nil, fmt.Errorf("ledger entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	if err := s.repo.WithTx(tx).CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func buildEntry(input EntryInput) (models.LedgerEntry, error) {
	if !input.Category.IsValid() {
		return models.LedgerEntry{}, fmt.Errorf("invalid ledger category %q", input.Category)
	}
	if !input.Source.IsValid() {
		return models.LedgerEntry{}, fmt.Errorf("invalid ledger source %q", input.Source)
	}
	if input.Quantity == 0 {
		return models.LedgerEntry{}, fmt.Errorf("quantity must be non-zero")
	}

	subType := strings.TrimSpace(input.SubType)
	if input.Category.RequiresSubType() && subType == "" {
		return models.LedgerEntry{}, fmt.Errorf("%s entries require a sub type", input.Category)
	}
	if input.Category == enums.LedgerCategoryLiquid {
		if _, err := enums.ParseLiquidColor(subType); err != nil {
			return models.LedgerEntry{}, err
		}
	}

	entry := models.LedgerEntry{
		Category: input.Category,
		Quantity: input.Quantity,
		Source:   input.Source,
	}
	if subType != "" {
		entry.SubType = &subType
	}
	if orderID := strings.TrimSpace(input.OrderID); orderID != "" {
		entry.OrderID = &orderID
	}
	return entry, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID string) ([]models.LedgerEntry, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}

// Totals aggregates the ledger; tx may be nil to read outside a transaction.
func (s *service) Totals(ctx context.Context, tx *gorm.DB) (Totals, error) {
	sums, err := s.repo.WithTx(tx).SumByKey(ctx)
	if err != nil {
		return Totals{}, err
	}
	return newTotals(sums), nil
}

func (s *service) Clear(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		return fmt.Errorf("ledger clear requires a transaction")
	}
	return s.repo.WithTx(tx).DeleteAll(ctx)
}
