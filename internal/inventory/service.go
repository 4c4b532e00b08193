package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	"github.com/angelmondragon/potionshop-backend/internal/idempotency"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/internal/planner"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

const (
	// InitialGold is the treasury after a reset.
	InitialGold = 100
	// CapacityUnitPrice is the gold cost of one potion or ml capacity unit.
	CapacityUnitPrice = 1000
	// MaxCapacityUnitsPerPlan bounds a single capacity plan.
	MaxCapacityUnitsPerPlan = 10
	// ResetOrderID tags the baseline gold entry.
	ResetOrderID = "reset"

	// MaxMixQuantity bounds the potions bottled by one mix line.
	MaxMixQuantity = 10000
	// MaxLedgerQuantity is the largest amount one entry or snapshot column holds.
	MaxLedgerQuantity = math.MaxInt32

	defaultPotionsPerUnit = 50
	defaultMLPerUnit      = 10000
)

const (
	operationBarrels  = "barrels.deliver"
	operationBottler  = "bottler.deliver"
	operationCapacity = "capacity.deliver"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Recorder receives post-commit accounting signals.
type Recorder interface {
	OrderProcessed(operation string, outcome enums.OrderOutcome)
	LedgerEntriesCommitted(entries []models.LedgerEntry)
}

type noopRecorder struct{}

func (noopRecorder) OrderProcessed(string, enums.OrderOutcome)    {}
func (noopRecorder) LedgerEntriesCommitted([]models.LedgerEntry) {}

// Service applies order-keyed mutations to the snapshots and ledger, and
// answers planning and audit reads.
type Service interface {
	ApplyLiquidDelivery(ctx context.Context, orderID string, barrels []types.Barrel) (*DeliveryResult, error)
	ApplyBottling(ctx context.Context, orderID string, mixes []types.PotionMix) (*BottlingResult, error)
	ApplyCapacityPurchase(ctx context.Context, orderID string, purchase CapacityPurchase) (*CapacityResult, error)
	PlanBarrels(ctx context.Context, wholesale []types.Barrel) ([]types.BarrelOrder, error)
	PlanBottles(ctx context.Context) ([]types.PotionMix, error)
	PlanCapacity(ctx context.Context) (*CapacityPurchase, error)
	Audit(ctx context.Context) (*Audit, error)
	Reconcile(ctx context.Context) ([]Discrepancy, error)
	OrderLedger(ctx context.Context, orderID string) ([]models.LedgerEntry, error)
	Reset(ctx context.Context) error
	EnsureBaseline(ctx context.Context) (bool, error)
}

// Options tunes capacity unit sizes.
type Options struct {
	PotionsPerCapacityUnit int
	MLPerCapacityUnit      int
}

type service struct {
	tx       txRunner
	repo     Repository
	ledger   ledger.Service
	guard    idempotency.Guard
	catalog  catalog.Service
	logg     *logger.Logger
	recorder Recorder
	opts     Options
}

// NewService builds the inventory accounting service. recorder may be nil.
func NewService(
	tx txRunner,
	repo Repository,
	ledgerSvc ledger.Service,
	guard idempotency.Guard,
	catalogSvc catalog.Service,
	logg *logger.Logger,
	recorder Recorder,
	opts Options,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
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
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if opts.PotionsPerCapacityUnit <= 0 {
		opts.PotionsPerCapacityUnit = defaultPotionsPerUnit
	}
	if opts.MLPerCapacityUnit <= 0 {
		opts.MLPerCapacityUnit = defaultMLPerUnit
	}
	return &service{
		tx:       tx,
		repo:     repo,
		ledger:   ledgerSvc,
		guard:    guard,
		catalog:  catalogSvc,
		logg:     logg,
		recorder: recorder,
		opts:     opts,
	}, nil
}

// DeliveryResult reports how a barrel delivery resolved.
type DeliveryResult struct {
	OrderID  string             `json:"order_id"`
	Outcome  enums.OrderOutcome `json:"outcome"`
	Reason   string             `json:"reason,omitempty"`
	GoldPaid int                `json:"gold_paid"`
	MLAdded  types.LiquidLevels `json:"ml_added"`
}

func (s *service) ApplyLiquidDelivery(ctx context.Context, orderID string, barrels []types.Barrel) (*DeliveryResult, error) {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, orderID)

	cost, added, err := deliveryTotals(barrels)
	if err != nil {
		return nil, s.fail(ctx, operationBarrels, "barrel delivery rejected", err)
	}

	result := &DeliveryResult{OrderID: orderID}
	var committed []models.LedgerEntry
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		accepted, err := s.guard.Accept(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !accepted {
			result.Outcome = enums.OrderOutcomeDuplicate
			return nil
		}

		repo := s.repo.WithTx(tx)
		gold, err := repo.Gold(ctx)
		if err != nil {
			return err
		}
		if gold < cost {
			result.Outcome = enums.OrderOutcomeSkipped
			result.Reason = fmt.Sprintf("insufficient gold: need %d, have %d", cost, gold)
			return nil
		}

		inputs := make([]ledger.EntryInput, 0, len(enums.LiquidColors)+1)
		for slot, ml := range added {
			if ml > 0 {
				inputs = append(inputs, ledger.EntryInput{
					Category: enums.LedgerCategoryLiquid,
					SubType:  enums.LiquidColors[slot].String(),
					Quantity: ml,
					OrderID:  orderID,
					Source:   enums.LedgerSourceBarrels,
				})
			}
		}
		if cost > 0 {
			inputs = append(inputs, ledger.EntryInput{
				Category: enums.LedgerCategoryGold,
				Quantity: -cost,
				OrderID:  orderID,
				Source:   enums.LedgerSourceBarrels,
			})
		}

		entries, err := s.ledger.Append(ctx, tx, inputs...)
		if err != nil {
			return err
		}
		if err := repo.AdjustLiquid(ctx, added); err != nil {
			return err
		}
		if err := repo.AdjustGold(ctx, -cost); err != nil {
			return err
		}

		committed = entries
		result.Outcome = enums.OrderOutcomeApplied
		result.GoldPaid = cost
		result.MLAdded = added
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, operationBarrels, "barrel delivery failed", err)
	}

	s.finish(ctx, operationBarrels, result.Outcome, result.Reason, committed)
	return result, nil
}

// deliveryTotals returns the gold cost and the floored ml per color of a
// delivery. Sums run in decimal and are refused before any state is read when
// a barrel is malformed or a total would not fit a ledger entry.
func deliveryTotals(barrels []types.Barrel) (int, types.LiquidLevels, error) {
	var (
		cost  = decimal.Zero
		added [4]decimal.Decimal
		limit = decimal.NewFromInt(MaxLedgerQuantity)
	)
	for i, barrel := range barrels {
		if barrel.MLPerBarrel <= 0 || barrel.Price < 0 || barrel.Quantity < 0 {
			return 0, types.LiquidLevels{}, pkgerrors.Newf(pkgerrors.CodeValidation,
				"barrel %d (%s) needs positive ml_per_barrel and non-negative price and quantity", i, barrel.SKU)
		}
		quantity := decimal.NewFromInt(int64(barrel.Quantity))
		cost = cost.Add(decimal.NewFromInt(int64(barrel.Price)).Mul(quantity))
		volume := decimal.NewFromInt(int64(barrel.MLPerBarrel)).Mul(quantity)
		for slot, share := range barrel.PotionType {
			if share <= 0 {
				continue
			}
			added[slot] = added[slot].Add(decimal.NewFromFloat(share).Mul(volume).Floor())
		}
	}

	if cost.GreaterThan(limit) {
		return 0, types.LiquidLevels{}, pkgerrors.Newf(pkgerrors.CodeValidation, "delivery cost %s exceeds %d", cost, MaxLedgerQuantity)
	}
	var levels types.LiquidLevels
	for slot, ml := range added {
		if ml.GreaterThan(limit) {
			return 0, types.LiquidLevels{}, pkgerrors.Newf(pkgerrors.CodeValidation,
				"delivery adds %s ml of %s, above %d", ml, enums.LiquidColors[slot], MaxLedgerQuantity)
		}
		levels[slot] = int(ml.IntPart())
	}
	return int(cost.IntPart()), levels, nil
}

// BottlingLine reports one requested mix.
type BottlingLine struct {
	PotionType types.PotionType   `json:"potion_type"`
	Quantity   int                `json:"quantity"`
	SKU        string             `json:"sku,omitempty"`
	Outcome    enums.OrderOutcome `json:"outcome"`
	Reason     string             `json:"reason,omitempty"`
}

// BottlingResult reports how a bottler delivery resolved.
type BottlingResult struct {
	OrderID string             `json:"order_id"`
	Outcome enums.OrderOutcome `json:"outcome"`
	Lines   []BottlingLine     `json:"lines"`
}

func (s *service) ApplyBottling(ctx context.Context, orderID string, mixes []types.PotionMix) (*BottlingResult, error) {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, orderID)

	for i, mix := range mixes {
		if mix.Quantity > MaxMixQuantity {
			return nil, s.fail(ctx, operationBottler, "bottler delivery rejected",
				pkgerrors.Newf(pkgerrors.CodeValidation, "mix %d quantity %d exceeds %d", i, mix.Quantity, MaxMixQuantity))
		}
	}

	result := &BottlingResult{OrderID: orderID, Lines: []BottlingLine{}}
	var committed []models.LedgerEntry
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		accepted, err := s.guard.Accept(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !accepted {
			result.Outcome = enums.OrderOutcomeDuplicate
			return nil
		}

		registry, err := s.catalog.Registry(ctx, tx)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		available, err := repo.Liquid(ctx)
		if err != nil {
			return err
		}

		for _, mix := range mixes {
			line := BottlingLine{PotionType: mix.PotionType, Quantity: mix.Quantity, Outcome: enums.OrderOutcomeSkipped}

			recipe, ok := registry.ByRatio(mix.PotionType)
			if !ok {
				line.Reason = "no matching recipe"
				s.skipLine(ctx, line)
				result.Lines = append(result.Lines, line)
				continue
			}
			line.SKU = recipe.SKU
			if mix.Quantity <= 0 {
				line.Reason = "non-positive quantity"
				s.skipLine(ctx, line)
				result.Lines = append(result.Lines, line)
				continue
			}

			var needed types.LiquidLevels
			short := false
			for slot, pct := range mix.PotionType {
				needed[slot] = pct * mix.Quantity
				if needed[slot] < 0 || needed[slot] > available[slot] {
					short = true
				}
			}
			if short {
				line.Reason = "insufficient liquid"
				s.skipLine(ctx, line)
				result.Lines = append(result.Lines, line)
				continue
			}

			inputs := make([]ledger.EntryInput, 0, len(enums.LiquidColors)+1)
			var debit types.LiquidLevels
			for slot, ml := range needed {
				if ml <= 0 {
					continue
				}
				debit[slot] = -ml
				available[slot] -= ml
				inputs = append(inputs, ledger.EntryInput{
					Category: enums.LedgerCategoryLiquid,
					SubType:  enums.LiquidColors[slot].String(),
					Quantity: -ml,
					OrderID:  orderID,
					Source:   enums.LedgerSourceBottler,
				})
			}
			inputs = append(inputs, ledger.EntryInput{
				Category: enums.LedgerCategoryPotion,
				SubType:  recipe.SKU,
				Quantity: mix.Quantity,
				OrderID:  orderID,
				Source:   enums.LedgerSourceBottler,
			})

			entries, err := s.ledger.Append(ctx, tx, inputs...)
			if err != nil {
				return err
			}
			if err := repo.AdjustLiquid(ctx, debit); err != nil {
				return err
			}
			if err := repo.AdjustPotion(ctx, recipe.SKU, mix.Quantity); err != nil {
				return err
			}

			committed = append(committed, entries...)
			line.Outcome = enums.OrderOutcomeApplied
			result.Lines = append(result.Lines, line)
		}

		result.Outcome = enums.OrderOutcomeSkipped
		for _, line := range result.Lines {
			if line.Outcome == enums.OrderOutcomeApplied {
				result.Outcome = enums.OrderOutcomeApplied
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, operationBottler, "bottler delivery failed", err)
	}

	reason := ""
	if result.Outcome == enums.OrderOutcomeSkipped {
		reason = "no mix could be bottled"
	}
	s.finish(ctx, operationBottler, result.Outcome, reason, committed)
	return result, nil
}

func (s *service) skipLine(ctx context.Context, line BottlingLine) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"potion_type": line.PotionType,
		"quantity":    line.Quantity,
		"reason":      line.Reason,
	})
	s.logg.Warn(ctx, "bottling line skipped")
}

// CapacityPurchase is a number of potion and ml capacity units.
type CapacityPurchase struct {
	PotionCapacity int `json:"potion_capacity"`
	MLCapacity     int `json:"ml_capacity"`
}

// Cost is the gold price of the purchase.
func (p CapacityPurchase) Cost() int {
	return CapacityUnitPrice * (p.PotionCapacity + p.MLCapacity)
}

// CapacityResult reports how a capacity purchase resolved.
type CapacityResult struct {
	OrderID  string             `json:"order_id"`
	Outcome  enums.OrderOutcome `json:"outcome"`
	GoldPaid int                `json:"gold_paid"`
}

func (s *service) ApplyCapacityPurchase(ctx context.Context, orderID string, purchase CapacityPurchase) (*CapacityResult, error) {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if purchase.PotionCapacity < 0 || purchase.MLCapacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity units must be non-negative")
	}
	ctx = s.logg.WithOrderID(ctx, orderID)

	result := &CapacityResult{OrderID: orderID}
	var committed []models.LedgerEntry
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		accepted, err := s.guard.Accept(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !accepted {
			result.Outcome = enums.OrderOutcomeDuplicate
			return nil
		}

		repo := s.repo.WithTx(tx)
		cost := purchase.Cost()
		gold, err := repo.Gold(ctx)
		if err != nil {
			return err
		}
		if gold < cost {
			return pkgerrors.New(pkgerrors.CodeInsufficient, "not enough gold for capacity purchase").
				WithDetails(map[string]int{"required": cost, "available": gold})
		}

		if cost > 0 {
			entries, err := s.ledger.Append(ctx, tx, ledger.EntryInput{
				Category: enums.LedgerCategoryGold,
				Quantity: -cost,
				OrderID:  orderID,
				Source:   enums.LedgerSourceCapacityUpgrade,
			})
			if err != nil {
				return err
			}
			committed = entries
		}
		if err := repo.AdjustGold(ctx, -cost); err != nil {
			return err
		}
		if err := repo.AddCapacity(ctx, purchase.PotionCapacity, purchase.MLCapacity); err != nil {
			return err
		}

		result.Outcome = enums.OrderOutcomeApplied
		result.GoldPaid = cost
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, operationCapacity, "capacity purchase failed", err)
	}

	s.finish(ctx, operationCapacity, result.Outcome, "", committed)
	return result, nil
}

func (s *service) PlanBarrels(ctx context.Context, wholesale []types.Barrel) ([]types.BarrelOrder, error) {
	var plan []types.BarrelOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		gold, err := repo.Gold(ctx)
		if err != nil {
			return err
		}
		liquid, err := repo.Liquid(ctx)
		if err != nil {
			return err
		}
		plan = planner.PlanBarrels(gold, liquid, wholesale)
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "planning barrels")
	}
	return plan, nil
}

func (s *service) PlanBottles(ctx context.Context) ([]types.PotionMix, error) {
	var plan []types.PotionMix
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		registry, err := s.catalog.Registry(ctx, tx)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		liquid, err := repo.Liquid(ctx)
		if err != nil {
			return err
		}
		capacity, err := repo.Capacity(ctx)
		if err != nil {
			return err
		}
		current, err := repo.TotalPotions(ctx)
		if err != nil {
			return err
		}

		recipes := make([]planner.Recipe, 0, registry.Len())
		for _, recipe := range registry.Recipes() {
			if !recipe.Active {
				continue
			}
			recipes = append(recipes, planner.Recipe{SKU: recipe.SKU, PotionType: recipe.PotionType(), Price: recipe.Price})
		}
		ceiling := capacity.PotionCapacity * s.opts.PotionsPerCapacityUnit
		plan = planner.PlanBottles(liquid, recipes, ceiling, current)
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "planning bottles")
	}
	return plan, nil
}

// PlanCapacity splits what the treasury can afford between potion and ml units.
func (s *service) PlanCapacity(ctx context.Context) (*CapacityPurchase, error) {
	gold, err := s.repo.Gold(ctx)
	if err != nil {
		return nil, wrapInternal(err, "reading gold")
	}
	units := gold / CapacityUnitPrice
	if units > MaxCapacityUnitsPerPlan {
		units = MaxCapacityUnitsPerPlan
	}
	potion := units / 2
	return &CapacityPurchase{PotionCapacity: potion, MLCapacity: units - potion}, nil
}

// Audit is the headline stock summary.
type Audit struct {
	NumberOfPotions int `json:"number_of_potions"`
	MLInBarrels     int `json:"ml_in_barrels"`
	Gold            int `json:"gold"`
}

func (s *service) Audit(ctx context.Context) (*Audit, error) {
	audit := &Audit{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		potions, err := repo.TotalPotions(ctx)
		if err != nil {
			return err
		}
		liquid, err := repo.Liquid(ctx)
		if err != nil {
			return err
		}
		gold, err := repo.Gold(ctx)
		if err != nil {
			return err
		}
		audit.NumberOfPotions = potions
		audit.MLInBarrels = liquid.Total()
		audit.Gold = gold
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "auditing inventory")
	}
	return audit, nil
}

// Discrepancy is a snapshot value that disagrees with the ledger.
type Discrepancy struct {
	Category enums.LedgerCategory `json:"category"`
	SubType  string               `json:"sub_type,omitempty"`
	Ledger   int64                `json:"ledger"`
	Snapshot int64                `json:"snapshot"`
}

// Reconcile compares ledger aggregates with every snapshot inside one transaction.
func (s *service) Reconcile(ctx context.Context) ([]Discrepancy, error) {
	out := []Discrepancy{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		totals, err := s.ledger.Totals(ctx, tx)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)

		gold, err := repo.Gold(ctx)
		if err != nil {
			return err
		}
		if int64(gold) != totals.Gold() {
			out = append(out, Discrepancy{Category: enums.LedgerCategoryGold, Ledger: totals.Gold(), Snapshot: int64(gold)})
		}

		liquid, err := repo.Liquid(ctx)
		if err != nil {
			return err
		}
		for slot, color := range enums.LiquidColors {
			if want := totals.Liquid(color); int64(liquid[slot]) != want {
				out = append(out, Discrepancy{Category: enums.LedgerCategoryLiquid, SubType: color.String(), Ledger: want, Snapshot: int64(liquid[slot])})
			}
		}

		potions, err := repo.Potions(ctx)
		if err != nil {
			return err
		}
		snapshot := make(map[string]int64, len(potions))
		for _, row := range potions {
			snapshot[row.SKU] = int64(row.Quantity)
		}
		for _, sku := range totals.PotionSKUs() {
			if have := snapshot[sku]; have != totals.Potion(sku) {
				out = append(out, Discrepancy{Category: enums.LedgerCategoryPotion, SubType: sku, Ledger: totals.Potion(sku), Snapshot: have})
			}
			delete(snapshot, sku)
		}
		for _, row := range potions {
			if have, untracked := snapshot[row.SKU]; untracked && have != 0 {
				out = append(out, Discrepancy{Category: enums.LedgerCategoryPotion, SubType: row.SKU, Ledger: 0, Snapshot: have})
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "reconciling ledger")
	}
	return out, nil
}

func (s *service) OrderLedger(ctx context.Context, orderID string) ([]models.LedgerEntry, error) {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return nil, err
	}
	seen, err := s.guard.Seen(ctx, orderID)
	if err != nil {
		return nil, wrapInternal(err, "looking up order")
	}
	if !seen {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s was never processed", orderID)
	}
	entries, err := s.ledger.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, wrapInternal(err, "listing order ledger")
	}
	return entries, nil
}

// Reset clears the ledger, processed orders and potion stock, then writes the
// baseline snapshots together with the gold entry that backs them.
func (s *service) Reset(ctx context.Context) error {
	var committed []models.LedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.Clear(ctx, tx); err != nil {
			return err
		}
		if err := s.guard.Clear(ctx, tx); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).ResetSnapshots(ctx, InitialGold); err != nil {
			return err
		}
		entries, err := s.ledger.Append(ctx, tx, ledger.EntryInput{
			Category: enums.LedgerCategoryGold,
			SubType:  "initial",
			Quantity: InitialGold,
			OrderID:  ResetOrderID,
			Source:   enums.LedgerSourceAdmin,
		})
		committed = entries
		return err
	})
	if err != nil {
		return wrapInternal(err, "resetting shop")
	}
	s.recorder.LedgerEntriesCommitted(committed)
	s.logg.Info(ctx, "shop reset to baseline")
	return nil
}

// EnsureBaseline resets an empty database and reports whether it did.
func (s *service) EnsureBaseline(ctx context.Context) (bool, error) {
	ok, err := s.repo.HasBaseline(ctx)
	if err != nil {
		return false, wrapInternal(err, "checking baseline")
	}
	if ok {
		return false, nil
	}
	if err := s.Reset(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) finish(ctx context.Context, operation string, outcome enums.OrderOutcome, reason string, committed []models.LedgerEntry) {
	s.recorder.OrderProcessed(operation, outcome)
	s.recorder.LedgerEntriesCommitted(committed)

	fields := map[string]any{"operation": operation, "outcome": outcome.String(), "ledger_entries": len(committed)}
	if reason != "" {
		fields["reason"] = reason
	}
	ctx = s.logg.WithFields(ctx, fields)
	if outcome == enums.OrderOutcomeSkipped {
		s.logg.Warn(ctx, "order skipped")
		return
	}
	s.logg.Info(ctx, "order processed")
}

func (s *service) fail(ctx context.Context, operation, msg string, err error) error {
	if pkgerrors.IsRejection(err) {
		s.recorder.OrderProcessed(operation, enums.OrderOutcomeRejected)
		return err
	}
	s.recorder.OrderProcessed(operation, enums.OrderOutcomeFailed)
	s.logg.Error(ctx, msg, err)
	return wrapInternal(err, msg)
}

func requireOrderID(orderID string) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return orderID, nil
}

func wrapInternal(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if errors.Is(err, ErrInsufficient) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock changed concurrently, retry")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
