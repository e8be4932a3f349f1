package catering_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-railway/internal/apperr"
	"ms-railway/internal/catering"
	cateringdb "ms-railway/internal/catering/db"
	"ms-railway/internal/database/dbtest"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCateringEvent(ctx context.Context, o *models.CateringOrder, previous models.OrderStatus) error {
	args := m.Called(ctx, o, previous)
	return args.Error(0)
}

func newService(t *testing.T) (*catering.Service, int64, int64, *MockEventPublisher) {
	bdb := dbtest.New(t)
	user := dbtest.CreateUser(t, bdb, "u1", "110101199001011234")
	other := dbtest.CreateUser(t, bdb, "u2", "110101199001015678")
	events := new(MockEventPublisher)
	return catering.NewService(&cateringdb.DB{Bun: bdb}, events, logger.Nop()), user, other, events
}

func TestSeededMenu(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	brands, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 3)

	self, err := svc.ListItems(ctx, 0, models.ItemTypeSelf)
	require.NoError(t, err)
	assert.Len(t, self, 3)
	for _, it := range self {
		assert.Zero(t, it.BrandID)
	}

	byBrand, err := svc.ListItems(ctx, brands[0].ID, "")
	require.NoError(t, err)
	for _, it := range byBrand {
		assert.Equal(t, brands[0].ID, it.BrandID)
	}

	_, err = svc.ListItems(ctx, 0, "vending")
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateBrandAndItem(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	b, err := svc.CreateBrand(ctx, catering.BrandInput{Name: "老乡鸡"})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	_, err = svc.CreateBrand(ctx, catering.BrandInput{Name: "老乡鸡"})
	assert.True(t, apperr.IsConflict(err))

	item, err := svc.CreateItem(ctx, catering.ItemInput{Name: "肥西老母鸡汤", Price: 28, ItemType: models.ItemTypeBrand, BrandID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, item.BrandID)

	_, err = svc.CreateItem(ctx, catering.ItemInput{Name: "x", Price: 1, ItemType: models.ItemTypeBrand})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateItem(ctx, catering.ItemInput{Name: "x", Price: 1, ItemType: models.ItemTypeBrand, BrandID: 999})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.CreateItem(ctx, catering.ItemInput{Name: "x", Price: 0, ItemType: models.ItemTypeSelf})
	assert.True(t, apperr.IsValidation(err))
}

func TestCateringOrder_Lifecycle(t *testing.T) {
	svc, user, other, events := newService(t)
	ctx := context.Background()
	events.On("PublishCateringEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	menu, err := svc.ListItems(ctx, 0, "")
	require.NoError(t, err)
	require.NotEmpty(t, menu)

	o, err := svc.CreateOrder(ctx, user, catering.OrderInput{
		TrainNumber: "G1",
		Items:       []catering.OrderLineInput{{ItemID: menu[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpaid, o.Status)
	assert.InDelta(t, menu[0].Price*2, o.TotalPrice, 0.001)
	require.Len(t, o.Items, 1)
	assert.Equal(t, menu[0].Name, o.Items[0].ItemName)

	_, err = svc.PayOrder(ctx, other, o.ID)
	assert.True(t, apperr.IsNotFound(err))

	paid, err := svc.PayOrder(ctx, user, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)

	_, err = svc.CancelOrder(ctx, user, o.ID)
	assert.True(t, apperr.IsBusinessRule(err))

	list, err := svc.ListOrders(ctx, user, "Paid")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	events.AssertNumberOfCalls(t, "PublishCateringEvent", 2)
}

func TestCateringOrder_Rejections(t *testing.T) {
	svc, user, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, user, catering.OrderInput{TrainNumber: "G1"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateOrder(ctx, user, catering.OrderInput{TrainNumber: "G1",
		Items: []catering.OrderLineInput{{ItemID: 1, Quantity: 0}}})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateOrder(ctx, user, catering.OrderInput{TrainNumber: "G1",
		Items: []catering.OrderLineInput{{ItemID: 9999, Quantity: 1}}})
	assert.True(t, apperr.IsNotFound(err))

	orders, err := svc.ListOrders(ctx, user, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
