package cart

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

type countingVisits struct{ total int }

func (c *countingVisits) VisitsRecorded(n int) { c.total += n }

func newTestService(t *testing.T) (Service, *db.Client, *countingVisits) {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    "file:cart_" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.AutoMigrate(ctx))

	require.NoError(t, client.DB().Create(&[]models.PotionRecipe{
		{SKU: "RED_POTION_0", Name: "red", Price: 50, RedPct: 100, Active: true},
		{SKU: "GREEN_POTION_0", Name: "green", Price: 40, GreenPct: 100, Active: true},
	}).Error)

	visits := &countingVisits{}
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	svc, err := NewService(NewRepository(client.DB()), client, logg, visits)
	require.NoError(t, err)
	return svc, client, visits
}

func customer(name string) Customer {
	return Customer{CustomerID: "id-" + name, CustomerName: name, CharacterClass: "Wizard", Level: 5}
}

func TestCreateValidatesLevel(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := customer("Ann")
	in.Level = 21
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSetItemQuantityUpserts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	record, err := svc.Create(ctx, customer("Ann"))
	require.NoError(t, err)
	require.NotZero(t, record.ID)

	_, err = svc.SetItemQuantity(ctx, record.ID, "RED_POTION_0", 1)
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, record.ID, "RED_POTION_0", 3)
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
}

func TestSetItemQuantityErrors(t *testing.T) {
	ctx := context.Background()
	svc, client, _ := newTestService(t)

	_, err := svc.SetItemQuantity(ctx, 999, "RED_POTION_0", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	record, err := svc.Create(ctx, customer("Ann"))
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, record.ID, "RED_POTION_0", 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, NewRepository(client.DB()).MarkCheckedOut(ctx, record.ID))
	_, err = svc.SetItemQuantity(ctx, record.ID, "RED_POTION_0", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestSearchFiltersAndTotals(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	ann, err := svc.Create(ctx, customer("Ann"))
	require.NoError(t, err)
	bob, err := svc.Create(ctx, customer("Bob"))
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, ann.ID, "RED_POTION_0", 2)
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, ann.ID, "GREEN_POTION_0", 1)
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, bob.ID, "RED_POTION_0", 1)
	require.NoError(t, err)

	res, err := svc.Search(ctx, SearchInput{CustomerName: "an", SortCol: "item_sku", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "GREEN_POTION_0", res.Results[0].ItemSKU)
	assert.Equal(t, 40, res.Results[0].LineItemTotal)
	assert.Equal(t, "RED_POTION_0", res.Results[1].ItemSKU)
	assert.Equal(t, 100, res.Results[1].LineItemTotal)
	assert.Empty(t, res.Previous)
	assert.Empty(t, res.Next)

	bySKU, err := svc.Search(ctx, SearchInput{PotionSKU: "red", SortCol: "customer_name"})
	require.NoError(t, err)
	require.Len(t, bySKU.Results, 2)
	assert.Equal(t, "Bob", bySKU.Results[0].CustomerName)
}

func TestSearchPaginates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	for i := 0; i < SearchPageSize+5; i++ {
		record, err := svc.Create(ctx, customer(fmt.Sprintf("c%03d", i)))
		require.NoError(t, err)
		_, err = svc.SetItemQuantity(ctx, record.ID, "RED_POTION_0", 1)
		require.NoError(t, err)
	}

	first, err := svc.Search(ctx, SearchInput{SortCol: "customer_name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, first.Results, SearchPageSize)
	assert.Equal(t, "c000", first.Results[0].CustomerName)
	require.NotEmpty(t, first.Next)

	second, err := svc.Search(ctx, SearchInput{SortCol: "customer_name", SortOrder: "asc", SearchPage: first.Next})
	require.NoError(t, err)
	require.Len(t, second.Results, 5)
	assert.Equal(t, "c050", second.Results[0].CustomerName)
	assert.NotEmpty(t, second.Previous)
	assert.Empty(t, second.Next)
}

func TestSearchRejectsUnknownSort(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Search(context.Background(), SearchInput{SortCol: "price; DROP TABLE carts"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRecordVisitCounts(t *testing.T) {
	svc, _, visits := newTestService(t)
	n, err := svc.RecordVisit(context.Background(), "visit-1", []Customer{customer("Ann"), customer("Bob")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, visits.total)

	_, err = svc.RecordVisit(context.Background(), "", nil)
	require.Error(t, err)
}
