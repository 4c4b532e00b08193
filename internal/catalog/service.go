package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/potionshop-backend/pkg/types"
	"gorm.io/gorm"
)

// DefaultStorefrontLimit caps how many offers the storefront lists.
const DefaultStorefrontLimit = 6

// Service exposes the recipe registry and the public storefront.
type Service interface {
	Registry(ctx context.Context, tx *gorm.DB) (*Registry, error)
	Storefront(ctx context.Context) ([]StorefrontItem, error)
	SeedDefaults(ctx context.Context) (int64, error)
}

// StorefrontItem is one in-stock offer.
type StorefrontItem struct {
	SKU        string           `json:"sku"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	Price      int              `json:"price"`
	PotionType types.PotionType `json:"potion_type"`
}

type service struct {
	repo  Repository
	limit int
}

// NewService wires the catalog service. A non-positive limit falls back to DefaultStorefrontLimit.
func NewService(repo Repository, storefrontLimit int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if storefrontLimit <= 0 {
		storefrontLimit = DefaultStorefrontLimit
	}
	return &service{repo: repo, limit: storefrontLimit}, nil
}

// Registry loads every recipe; tx may be nil to read outside a transaction.
func (s *service) Registry(ctx context.Context, tx *gorm.DB) (*Registry, error) {
	recipes, err := s.repo.WithTx(tx).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	return NewRegistry(recipes), nil
}

func (s *service) Storefront(ctx context.Context) ([]StorefrontItem, error) {
	rows, err := s.repo.ListStorefront(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("loading storefront: %w", err)
	}
	items := make([]StorefrontItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, StorefrontItem{
			SKU:        row.SKU,
			Name:       row.Name,
			Quantity:   row.Quantity,
			Price:      row.Price,
			PotionType: types.PotionType{row.RedPct, row.GreenPct, row.BluePct, row.DarkPct},
		})
	}
	return items, nil
}

func (s *service) SeedDefaults(ctx context.Context) (int64, error) {
	return s.repo.Seed(ctx, DefaultRecipes())
}
