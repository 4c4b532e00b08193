package cart

import (
	"context"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart and checkout services.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, record *models.Cart) (*models.Cart, error)
	FindByID(ctx context.Context, id int64) (*models.Cart, error)
	UpsertItem(ctx context.Context, item *models.CartItem) error
	MarkCheckedOut(ctx context.Context, id int64) error
	SearchLines(ctx context.Context, filter SearchFilter, offset, limit int) ([]LineRow, error)
}
