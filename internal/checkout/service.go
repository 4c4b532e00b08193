package checkout

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/cart"
	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	"github.com/angelmondragon/potionshop-backend/internal/idempotency"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

const operationCheckout = "carts.checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a cart into sold potions and collected gold.
type Service interface {
	Execute(ctx context.Context, cartID int64, input CheckoutInput) (*Result, error)
}

// CheckoutInput carries the customer's payment note. It is logged, not charged.
type CheckoutInput struct {
	Payment string
}

// Result is what a checkout sold. A repeated checkout reports zero totals.
type Result struct {
	TotalPotionsBought int                `json:"total_potions_bought"`
	TotalGoldPaid      int                `json:"total_gold_paid"`
	Outcome            enums.OrderOutcome `json:"-"`
}

// OrderID is the idempotency key a cart checks out under.
func OrderID(cartID int64) string {
	return fmt.Sprintf("checkout-%d", cartID)
}

type service struct {
	tx        txRunner
	cartRepo  cart.CartRepository
	inventory inventory.Repository
	ledger    ledger.Service
	guard     idempotency.Guard
	catalog   catalog.Service
	logg      *logger.Logger
	recorder  inventory.Recorder
}

// NewService builds the checkout service. recorder may be nil.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	inventoryRepo inventory.Repository,
	ledgerSvc ledger.Service,
	guard idempotency.Guard,
	catalogSvc catalog.Service,
	logg *logger.Logger,
	recorder inventory.Recorder,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		cartRepo:  cartRepo,
		inventory: inventoryRepo,
		ledger:    ledgerSvc,
		guard:     guard,
		catalog:   catalogSvc,
		logg:      logg,
		recorder:  recorder,
	}, nil
}

type line struct {
	sku      string
	quantity int
	price    int
}

func (s *service) Execute(ctx context.Context, cartID int64, input CheckoutInput) (*Result, error) {
	if cartID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	orderID := OrderID(cartID)
	ctx = s.logg.WithCartID(s.logg.WithOrderID(ctx, orderID), cartID)

	result := &Result{}
	var committed []models.LedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		accepted, err := s.guard.Accept(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !accepted {
			result.Outcome = enums.OrderOutcomeDuplicate
			return nil
		}

		record, err := s.cartRepo.WithTx(tx).FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}
		// a reset forgets processed orders but not carts
		if record.CheckedOut {
			result.Outcome = enums.OrderOutcomeDuplicate
			return nil
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
		}

		registry, err := s.catalog.Registry(ctx, tx)
		if err != nil {
			return err
		}
		lines := make([]line, 0, len(record.Items))
		skus := make([]string, 0, len(record.Items))
		for _, item := range record.Items {
			recipe, ok := registry.BySKU(item.PotionSKU)
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "no price for potion").
					WithDetails(map[string]string{"sku": item.PotionSKU})
			}
			lines = append(lines, line{sku: item.PotionSKU, quantity: item.Quantity, price: recipe.Price})
			skus = append(skus, item.PotionSKU)
		}

		repo := s.inventory.WithTx(tx)
		stock, err := repo.PotionQuantities(ctx, skus)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if have := stock[l.sku]; have < l.quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficient, "not enough potions in stock").
					WithDetails(map[string]any{"sku": l.sku, "requested": l.quantity, "available": have})
			}
		}

		inputs := make([]ledger.EntryInput, 0, len(lines)+1)
		for _, l := range lines {
			result.TotalPotionsBought += l.quantity
			result.TotalGoldPaid += l.quantity * l.price
			inputs = append(inputs, ledger.EntryInput{
				Category: enums.LedgerCategoryPotion,
				SubType:  l.sku,
				Quantity: -l.quantity,
				OrderID:  orderID,
				Source:   enums.LedgerSourceCheckout,
			})
		}
		if result.TotalGoldPaid > 0 {
			inputs = append(inputs, ledger.EntryInput{
				Category: enums.LedgerCategoryGold,
				Quantity: result.TotalGoldPaid,
				OrderID:  orderID,
				Source:   enums.LedgerSourceCheckout,
			})
		}

		entries, err := s.ledger.Append(ctx, tx, inputs...)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := repo.AdjustPotion(ctx, l.sku, -l.quantity); err != nil {
				return err
			}
		}
		if err := repo.AdjustGold(ctx, result.TotalGoldPaid); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).MarkCheckedOut(ctx, cartID); err != nil {
			return err
		}

		committed = entries
		result.Outcome = enums.OrderOutcomeApplied
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if s.recorder != nil {
		s.recorder.OrderProcessed(operationCheckout, result.Outcome)
		s.recorder.LedgerEntriesCommitted(committed)
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"outcome":        result.Outcome.String(),
		"potions_bought": result.TotalPotionsBought,
		"gold_paid":      result.TotalGoldPaid,
		"payment":        input.Payment,
	})
	s.logg.Info(logCtx, "checkout processed")
	return result, nil
}

func (s *service) fail(ctx context.Context, err error) error {
	if errors.Is(err, inventory.ErrInsufficient) {
		err = pkgerrors.Wrap(pkgerrors.CodeInsufficient, err, "not enough potions in stock")
	}
	outcome := enums.OrderOutcomeFailed
	if pkgerrors.IsRejection(err) {
		outcome = enums.OrderOutcomeRejected
	}
	if s.recorder != nil {
		s.recorder.OrderProcessed(operationCheckout, outcome)
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	s.logg.Error(ctx, "checkout failed", err)
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout failed")
}
