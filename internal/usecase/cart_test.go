package usecase

import (
	"context"
	"sync"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddRoomPricesAndClaims(t *testing.T) {
	store := newMemStore()
	category, rooms := store.seedCategory("Deluxe", entity.Units(100), 1)
	alice, aliceCustomer := store.seedCustomer("alice@example.com", 0)
	bob, _ := store.seedCustomer("bob@example.com", 0)

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()
	req := &request.AddRoomRequest{CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-03"}

	stay, err := svc.AddRoom(ctx, alice.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, entity.Units(200), stay.Price)
	assert.Equal(t, entity.LineStatusPending, stay.Status)
	assert.Equal(t, rooms[0].ID.String(), stay.RoomID)
	require.NotNil(t, stay.CartID)

	cart, ok := store.cartOf(aliceCustomer.ID)
	require.True(t, ok)
	assert.Equal(t, entity.Units(200), cart.Total)

	// The only room is held by a pending stay in Alice's cart.
	_, err = svc.AddRoom(ctx, bob.ID.String(), req)
	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.EqualError(t, err, "no availability")

	// A non-overlapping range is still bookable.
	_, err = svc.AddRoom(ctx, bob.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-03", EndDate: "2024-06-04",
	})
	assert.NoError(t, err)
}

func TestAddRoomValidation(t *testing.T) {
	store := newMemStore()
	category, _ := store.seedCategory("Deluxe", entity.Units(100), 1)
	user, _ := store.seedCustomer("alice@example.com", 0)
	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddRoom(ctx, user.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-03", EndDate: "2024-06-01",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddRoom(ctx, user.ID.String(), &request.AddRoomRequest{
		CategoryID: uuid.NewString(), StartDate: "2024-06-01", EndDate: "2024-06-02",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddRoom(ctx, uuid.NewString(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-02",
	})
	assert.ErrorIs(t, err, ErrNotCustomer)
}

func TestAddRoomConcurrentClaims(t *testing.T) {
	store := newMemStore()
	category, _ := store.seedCategory("Suite", entity.Units(300), 1)

	users := make([]string, 8)
	for i := range users {
		u, _ := store.seedCustomer(uuid.NewString()+"@example.com", 0)
		users[i] = u.ID.String()
	}

	svc := NewCartService(store.repository(), zap.NewNop())
	req := &request.AddRoomRequest{CategoryID: category.ID.String(), StartDate: "2024-07-01", EndDate: "2024-07-05"}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for _, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddRoom(context.Background(), userID, req)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, ErrNoAvailability) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, len(users)-1, rejected)
}

func TestAddServiceFreeSkipsCart(t *testing.T) {
	store := newMemStore()
	user, customer := store.seedCustomer("alice@example.com", 0)
	pool := store.seedService("Pool", nil)
	spa := store.seedService("Spa", moneyPtr(entity.Money(4550)))

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	free, err := svc.AddService(ctx, user.ID.String(), &request.AddServiceRequest{
		ServiceID: pool.ID.String(), Date: "2024-06-02", Time: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusConfirmed, free.Status)
	assert.Nil(t, free.CartID)
	_, ok := store.cartOf(customer.ID)
	assert.False(t, ok, "a free service must not create a cart")

	paid, err := svc.AddService(ctx, user.ID.String(), &request.AddServiceRequest{
		ServiceID: spa.ID.String(), Date: "2024-06-02", Time: "11:30",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusPending, paid.Status)
	require.NotNil(t, paid.CartID)

	cart, err := svc.GetActiveCart(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.Money(4550), cart.Total)
	assert.Len(t, cart.Services, 1)
	assert.Empty(t, cart.RoomStays)
}

func TestAddServiceRejectsBadTime(t *testing.T) {
	store := newMemStore()
	user, _ := store.seedCustomer("alice@example.com", 0)
	spa := store.seedService("Spa", moneyPtr(entity.Units(45)))

	svc := NewCartService(store.repository(), zap.NewNop())
	_, err := svc.AddService(context.Background(), user.ID.String(), &request.AddServiceRequest{
		ServiceID: spa.ID.String(), Date: "2024-06-02", Time: "25:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetActiveCart(t *testing.T) {
	store := newMemStore()
	category, _ := store.seedCategory("Deluxe", entity.Units(100), 1)
	user, customer := store.seedCustomer("alice@example.com", 0)

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	cart, err := svc.GetActiveCart(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, cart)

	_, err = svc.AddRoom(ctx, user.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-03",
	})
	require.NoError(t, err)

	// Corrupt the cached total; reading the cart must repair it.
	stored, _ := store.cartOf(customer.ID)
	require.NoError(t, store.repository().Cart.UpdateTotal(ctx, stored.ID, entity.Units(1)))

	cart, err = svc.GetActiveCart(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.Units(200), cart.Total)
	assert.Equal(t, entity.CartStatusActive, cart.Status)

	repaired, _ := store.cartOf(customer.ID)
	assert.Equal(t, entity.Units(200), repaired.Total)
}

func TestRemoveRoomStay(t *testing.T) {
	store := newMemStore()
	category, rooms := store.seedCategory("Deluxe", entity.Units(100), 1)
	alice, _ := store.seedCustomer("alice@example.com", 0)
	bob, _ := store.seedCustomer("bob@example.com", 0)
	spa := store.seedService("Spa", moneyPtr(entity.Units(30)))

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	deluxe := &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-03",
	}
	stay, err := svc.AddRoom(ctx, alice.ID.String(), deluxe)
	require.NoError(t, err)
	_, err = svc.AddService(ctx, alice.ID.String(), &request.AddServiceRequest{
		ServiceID: spa.ID.String(), Date: "2024-06-02", Time: "09:00",
	})
	require.NoError(t, err)

	before, err := svc.GetActiveCart(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.Units(230), before.Total)

	// Someone else's cart item is invisible.
	_, err = svc.RemoveRoomStay(ctx, bob.ID.String(), stay.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	total, err := svc.RemoveRoomStay(ctx, alice.ID.String(), stay.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Units(30), total.Total)

	_, err = svc.RemoveRoomStay(ctx, alice.ID.String(), stay.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The room is free again.
	avail := NewAvailabilityService(store.repository(), zap.NewNop())
	room, err := avail.FindAvailableRoom(ctx, category.ID, day("2024-06-01"), day("2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, rooms[0].ID, room.ID)

	// Adding the identical stay back restores the earlier total and room.
	again, err := svc.AddRoom(ctx, alice.ID.String(), deluxe)
	require.NoError(t, err)
	assert.Equal(t, rooms[0].ID.String(), again.RoomID)
	assert.Equal(t, stay.Price, again.Price)

	after, err := svc.GetActiveCart(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.ID, after.ID)
}

func TestRemoveServiceKeepsConfirmed(t *testing.T) {
	store := newMemStore()
	user, _ := store.seedCustomer("alice@example.com", 0)
	spa := store.seedService("Spa", moneyPtr(entity.Units(30)))
	gym := store.seedService("Gym", nil)

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	paid, err := svc.AddService(ctx, user.ID.String(), &request.AddServiceRequest{
		ServiceID: spa.ID.String(), Date: "2024-06-02", Time: "09:00",
	})
	require.NoError(t, err)
	free, err := svc.AddService(ctx, user.ID.String(), &request.AddServiceRequest{
		ServiceID: gym.ID.String(), Date: "2024-06-02", Time: "07:00",
	})
	require.NoError(t, err)

	_, err = svc.RemoveService(ctx, user.ID.String(), free.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	total, err := svc.RemoveService(ctx, user.ID.String(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Money(0), total.Total)

	_, err = svc.RemoveService(ctx, user.ID.String(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddRoomAfterConcurrentSettlement(t *testing.T) {
	store := newMemStore()
	category, _ := store.seedCategory("Deluxe", entity.Units(100), 2)
	user, customer := store.seedCustomer("alice@example.com", 0)

	svc := NewCartService(store.repository(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.AddRoom(ctx, user.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-02",
	})
	require.NoError(t, err)
	settled, ok := store.activeCartOf(customer.ID)
	require.True(t, ok)

	// The cart is paid while this request waits for it.
	store.beforeTx = func() { store.markCartPaid(settled.ID) }

	second, err := svc.AddRoom(ctx, user.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-05", EndDate: "2024-06-06",
	})
	require.NoError(t, err)
	require.NotNil(t, second.CartID)
	assert.NotEqual(t, settled.ID.String(), *second.CartID, "new items go to a fresh cart")

	fresh, ok := store.activeCartOf(customer.ID)
	require.True(t, ok)
	assert.Equal(t, entity.Units(100), fresh.Total)

	paid, err := store.repository().Cart.FindByID(ctx, settled.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CartStatusPaid, paid.Status)
	assert.Equal(t, entity.Units(100), paid.Total)

	// Items of the settled cart are out of reach of cart edits.
	_, err = svc.RemoveRoomStay(ctx, user.ID.String(), first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.repository().Cart.UpdateTotal(ctx, settled.ID, 0), repository.ErrNotFound)
}
