package cart

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchFilter narrows a cart line search. Name and SKU match as
// case-insensitive substrings.
type SearchFilter struct {
	CustomerName string
	PotionSKU    string
	SortCol      enums.CartSearchSort
	SortOrder    enums.SortOrder
}

// LineRow is one cart line joined with its customer and catalog price.
type LineRow struct {
	LineItemID    int64     `gorm:"column:line_item_id"`
	ItemSKU       string    `gorm:"column:item_sku"`
	CustomerName  string    `gorm:"column:customer_name"`
	LineItemTotal int       `gorm:"column:line_item_total"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

var sortColumns = map[enums.CartSearchSort]string{
	enums.CartSearchSortCustomerName:  "c.customer_name",
	enums.CartSearchSortItemSKU:       "ci.potion_sku",
	enums.CartSearchSortLineItemTotal: "line_item_total",
	enums.CartSearchSortTimestamp:     "ci.created_at",
}

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new cart.
func (r *Repository) Create(ctx context.Context, record *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads a cart with its lines.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("potion_sku ASC") }).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpsertItem sets the quantity of a cart line, inserting it when absent.
func (r *Repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "potion_sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

// MarkCheckedOut flags the cart as checked out.
func (r *Repository) MarkCheckedOut(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", id).
		Update("checked_out", true).Error
}

// SearchLines returns up to limit cart lines starting at offset.
func (r *Repository) SearchLines(ctx context.Context, filter SearchFilter, offset, limit int) ([]LineRow, error) {
	query := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select(`ci.id AS line_item_id,
			ci.potion_sku AS item_sku,
			c.customer_name AS customer_name,
			ci.quantity * COALESCE(pc.price, 0) AS line_item_total,
			ci.created_at AS created_at`).
		Joins("JOIN carts c ON c.id = ci.cart_id").
		Joins("LEFT JOIN potion_catalog pc ON pc.sku = ci.potion_sku")

	if name := strings.TrimSpace(filter.CustomerName); name != "" {
		query = query.Where(`LOWER(c.customer_name) LIKE ? ESCAPE '\'`, likePattern(name))
	}
	if sku := strings.TrimSpace(filter.PotionSKU); sku != "" {
		query = query.Where(`LOWER(ci.potion_sku) LIKE ? ESCAPE '\'`, likePattern(sku))
	}

	column, ok := sortColumns[filter.SortCol]
	if !ok {
		column = sortColumns[enums.CartSearchSortTimestamp]
	}
	desc := filter.SortOrder != enums.SortOrderAsc
	query = query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "ci.id", Raw: true}, Desc: desc})

	var rows []LineRow
	if err := query.Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func likePattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(value))
	return "%" + escaped + "%"
}
