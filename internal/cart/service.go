package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	// SearchPageSize is the fixed page size of cart line searches.
	SearchPageSize = 50
	MinLevel       = 1
	MaxLevel       = 20
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VisitRecorder counts customer visits.
type VisitRecorder interface {
	VisitsRecorded(n int)
}

type noopVisits struct{}

func (noopVisits) VisitsRecorded(int) {}

// Service exposes cart lifecycle operations short of checkout.
type Service interface {
	Create(ctx context.Context, input CreateCartInput) (*models.Cart, error)
	Get(ctx context.Context, cartID int64) (*models.Cart, error)
	SetItemQuantity(ctx context.Context, cartID int64, sku string, quantity int) (*models.CartItem, error)
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	RecordVisit(ctx context.Context, visitID string, customers []Customer) (int, error)
}

type service struct {
	repo   CartRepository
	tx     txRunner
	logg   *logger.Logger
	visits VisitRecorder
}

// NewService builds a cart service backed by the provided stack. visits may be nil.
func NewService(repo CartRepository, tx txRunner, logg *logger.Logger, visits VisitRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if visits == nil {
		visits = noopVisits{}
	}
	return &service{repo: repo, tx: tx, logg: logg, visits: visits}, nil
}

// Customer identifies a shopper.
type Customer struct {
	CustomerID     string `json:"customer_id" validate:"required"`
	CustomerName   string `json:"customer_name" validate:"required"`
	CharacterClass string `json:"character_class" validate:"required"`
	Level          int    `json:"level" validate:"min=1,max=20"`
}

// CreateCartInput captures the shopper a new cart belongs to.
type CreateCartInput = Customer

func (s *service) Create(ctx context.Context, input CreateCartInput) (*models.Cart, error) {
	if err := validateCustomer(input); err != nil {
		return nil, err
	}
	record, err := s.repo.Create(ctx, &models.Cart{
		CustomerID:     strings.TrimSpace(input.CustomerID),
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CharacterClass: strings.TrimSpace(input.CharacterClass),
		Level:          input.Level,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	s.logg.Info(s.logg.WithCartID(ctx, record.ID), "cart created")
	return record, nil
}

func (s *service) Get(ctx context.Context, cartID int64) (*models.Cart, error) {
	record, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, lookupError(err)
	}
	return record, nil
}

func (s *service) SetItemQuantity(ctx context.Context, cartID int64, sku string, quantity int) (*models.CartItem, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "potion sku is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item := &models.CartItem{CartID: cartID, PotionSKU: sku, Quantity: quantity}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindByID(ctx, cartID)
		if err != nil {
			return lookupError(err)
		}
		if record.CheckedOut {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart already checked out")
		}
		if err := repo.UpsertItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SearchInput is the raw query for a cart line search.
type SearchInput struct {
	CustomerName string
	PotionSKU    string
	SortCol      string
	SortOrder    string
	SearchPage   string
}

// SearchLine is one result row.
type SearchLine struct {
	LineItemID    int64     `json:"line_item_id"`
	ItemSKU       string    `json:"item_sku"`
	CustomerName  string    `json:"customer_name"`
	LineItemTotal int       `json:"line_item_total"`
	Timestamp     time.Time `json:"timestamp"`
}

// SearchResult is one page of lines plus the tokens of its neighbours.
type SearchResult struct {
	Previous string       `json:"previous"`
	Next     string       `json:"next"`
	Results  []SearchLine `json:"results"`
}

func (s *service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	sortCol, err := enums.ParseCartSearchSort(strings.TrimSpace(input.SortCol))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort_col")
	}
	sortOrder, err := enums.ParseSortOrder(strings.ToLower(strings.TrimSpace(input.SortOrder)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort_order")
	}
	page, err := pagination.Resolve(pagination.Params{Limit: SearchPageSize, Token: input.SearchPage})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid search_page")
	}

	rows, err := s.repo.SearchLines(ctx, SearchFilter{
		CustomerName: input.CustomerName,
		PotionSKU:    input.PotionSKU,
		SortCol:      sortCol,
		SortOrder:    sortOrder,
	}, page.Offset, page.Limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search carts")
	}

	rows = rows[:page.Finish(len(rows))]
	results := make([]SearchLine, 0, len(rows))
	for _, row := range rows {
		results = append(results, SearchLine{
			LineItemID:    row.LineItemID,
			ItemSKU:       row.ItemSKU,
			CustomerName:  row.CustomerName,
			LineItemTotal: row.LineItemTotal,
			Timestamp:     row.CreatedAt.UTC(),
		})
	}
	return &SearchResult{Previous: page.Previous, Next: page.Next, Results: results}, nil
}

// RecordVisit logs which customers walked through the shop. Nothing is stored.
func (s *service) RecordVisit(ctx context.Context, visitID string, customers []Customer) (int, error) {
	visitID = strings.TrimSpace(visitID)
	if visitID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "visit id is required")
	}
	for i, customer := range customers {
		if err := validateCustomer(customer); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("customer %d", i))
		}
	}

	s.visits.VisitsRecorded(len(customers))
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"visit_id":  visitID,
		"customers": len(customers),
	})
	s.logg.Info(logCtx, "customers visited")
	return len(customers), nil
}

func validateCustomer(c Customer) error {
	switch {
	case strings.TrimSpace(c.CustomerID) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	case strings.TrimSpace(c.CustomerName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	case strings.TrimSpace(c.CharacterClass) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "character_class is required")
	case c.Level < MinLevel || c.Level > MaxLevel:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "level must be between %d and %d", MinLevel, MaxLevel)
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
}
