package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
)

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validationError("invalid %s %q", what, raw)
	}
	return id, nil
}

// parseRange parses a [start, end) stay range. start must precede end.
func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, validationError("%v", err)
	}
	end, err := utils.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, validationError("%v", err)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, validationError("start date must be before end date")
	}
	return start, end, nil
}

// resolveCustomer loads the customer profile of an authenticated user.
func resolveCustomer(ctx context.Context, repo *repository.Repository, userID string) (*entity.Customer, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, newError(ErrUnauthorized, "invalid user ID")
	}

	customer, err := repo.Customer.FindByUserID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find customer for user %s: %w", userID, err)
	}
	if customer == nil {
		return nil, ErrNotCustomer
	}
	return customer, nil
}

// loadCartItems attaches the live line items of the cart.
func loadCartItems(ctx context.Context, repo *repository.Repository, cart *entity.Cart) error {
	stays, err := repo.RoomStay.FindByCart(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("load cart %s stays: %w", cart.ID, err)
	}
	services, err := repo.ServiceBooking.FindByCart(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("load cart %s services: %w", cart.ID, err)
	}

	cart.RoomStays = cart.RoomStays[:0]
	for _, s := range stays {
		if s.Status != entity.LineStatusCancelled {
			cart.RoomStays = append(cart.RoomStays, s)
		}
	}
	cart.Services = cart.Services[:0]
	for _, s := range services {
		if s.Status != entity.LineStatusCancelled {
			cart.Services = append(cart.Services, s)
		}
	}
	return nil
}

// refreshCartTotal reloads the items and stores the recomputed total.
func refreshCartTotal(ctx context.Context, repo *repository.Repository, cart *entity.Cart) error {
	if err := loadCartItems(ctx, repo, cart); err != nil {
		return err
	}
	cart.Total = cart.RecomputeTotal().FloorZero()
	return repo.Cart.UpdateTotal(ctx, cart.ID, cart.Total)
}

// holderFor builds the holder of a staff-entered booking.
func holderFor(ctx context.Context, repo *repository.Repository, customerID, guestName *string) (entity.Holder, error) {
	hasCustomer := customerID != nil && *customerID != ""
	hasGuest := guestName != nil && *guestName != ""

	switch {
	case hasCustomer && hasGuest:
		return entity.Holder{}, validationError("provide either customerId or guestName, not both")
	case hasCustomer:
		id, err := parseID(*customerID, "customer ID")
		if err != nil {
			return entity.Holder{}, err
		}
		customer, err := repo.Customer.FindByID(ctx, id)
		if err != nil {
			return entity.Holder{}, fmt.Errorf("find customer %s: %w", id, err)
		}
		if customer == nil {
			return entity.Holder{}, notFound("customer")
		}
		return entity.Holder{CustomerID: &customer.ID}, nil
	case hasGuest:
		return entity.Holder{GuestName: guestName}, nil
	}
	return entity.Holder{}, validationError("customerId or guestName is required")
}

func transitionError(err error) error {
	return newError(ErrConflict, err.Error())
}
