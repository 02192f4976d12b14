package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	GetActiveCart(ctx context.Context, userID string) (*response.CartResponse, error)
	AddRoom(ctx context.Context, userID string, req *request.AddRoomRequest) (*response.RoomStayResponse, error)
	AddService(ctx context.Context, userID string, req *request.AddServiceRequest) (*response.ServiceBookingResponse, error)
	RemoveRoomStay(ctx context.Context, userID, stayID string) (*response.CartTotalResponse, error)
	RemoveService(ctx context.Context, userID, bookingID string) (*response.CartTotalResponse, error)
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

// GetActiveCart returns nil when the customer has no active cart. The
// stored total is replaced by the sum of the items when they disagree.
func (s *cartService) GetActiveCart(ctx context.Context, userID string) (*response.CartResponse, error) {
	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Cart.FindActiveByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("find active cart: %w", err)
	}
	if cart == nil {
		return nil, nil
	}

	if err := loadCartItems(ctx, s.repo, cart); err != nil {
		return nil, err
	}

	stored := cart.Total
	if cart.Reconcile() {
		s.log.Warn("Cart total drifted, persisting recomputed value",
			zap.String("cart_id", cart.ID.String()),
			zap.String("stored", stored.String()),
			zap.String("recomputed", cart.Total.String()),
		)
		if err := s.repo.Cart.UpdateTotal(ctx, cart.ID, cart.Total); err != nil {
			return nil, fmt.Errorf("persist cart total: %w", err)
		}
	}

	resp := response.CartToResponse(cart)
	return &resp, nil
}

func (s *cartService) AddRoom(ctx context.Context, userID string, req *request.AddRoomRequest) (*response.RoomStayResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseID(req.CategoryID, "room category ID")
	if err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", categoryID, err)
	}
	if category == nil {
		return nil, notFound("room category")
	}

	var stay *entity.RoomStay
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.repo.Cart.GetOrCreateActive(ctx, customer.ID)
		if err != nil {
			return err
		}

		room, err := claimRoom(ctx, s.repo, category.ID, start, end)
		if err != nil {
			return err
		}

		price := PriceRoomStay(category.NightlyRate, start, end)
		stay = entity.NewRoomStay(entity.OriginCart, entity.Holder{CustomerID: &customer.ID}, room.ID, &cart.ID, start, end, price)
		if err := s.repo.RoomStay.Create(ctx, stay); err != nil {
			if errors.Is(err, repository.ErrRoomTaken) {
				return ErrNoAvailability
			}
			return err
		}

		return refreshCartTotal(ctx, s.repo, cart)
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			s.log.Error("Failed to add room to cart",
				zap.Error(err),
				zap.String("customer_id", customer.ID.String()),
				zap.String("category_id", categoryID.String()),
			)
		}
		return nil, err
	}

	s.log.Info("Room added to cart",
		zap.String("customer_id", customer.ID.String()),
		zap.String("room_id", stay.RoomID.String()),
		zap.String("price", stay.Price.String()),
	)

	resp := response.RoomStayToResponse(stay)
	return &resp, nil
}

func (s *cartService) AddService(ctx context.Context, userID string, req *request.AddServiceRequest) (*response.ServiceBookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	serviceID, err := parseID(req.ServiceID, "service ID")
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, validationError("%v", err)
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("find service %s: %w", serviceID, err)
	}
	if service == nil {
		return nil, notFound("service")
	}

	booking, err := addServiceForCustomer(ctx, s.repo, customer, service, date, req.Time)
	if err != nil {
		s.log.Error("Failed to add service", zap.Error(err), zap.String("service_id", serviceID.String()))
		return nil, err
	}

	resp := response.ServiceBookingToResponse(booking)
	return &resp, nil
}

// addServiceForCustomer puts a paid service in the customer's cart. A free
// service is confirmed on the spot and never touches the cart.
func addServiceForCustomer(ctx context.Context, repo *repository.Repository, customer *entity.Customer, service *entity.Service, date time.Time, at string) (*entity.ServiceBooking, error) {
	price := PriceService(service)
	holder := entity.Holder{CustomerID: &customer.ID}

	if price == 0 {
		booking := entity.NewServiceBooking(entity.OriginCart, holder, service.ID, nil, date, at, price)
		if err := repo.ServiceBooking.Create(ctx, booking); err != nil {
			return nil, err
		}
		return booking, nil
	}

	var booking *entity.ServiceBooking
	err := repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := repo.Cart.GetOrCreateActive(ctx, customer.ID)
		if err != nil {
			return err
		}

		booking = entity.NewServiceBooking(entity.OriginCart, holder, service.ID, &cart.ID, date, at, price)
		if err := repo.ServiceBooking.Create(ctx, booking); err != nil {
			return err
		}

		return refreshCartTotal(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *cartService) RemoveRoomStay(ctx context.Context, userID, stayID string) (*response.CartTotalResponse, error) {
	id, err := parseID(stayID, "room stay ID")
	if err != nil {
		return nil, err
	}

	return s.removeItem(ctx, userID, "room stay", func(ctx context.Context, cart *entity.Cart) error {
		stay, err := s.repo.RoomStay.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if stay == nil || !inCart(stay.CartID, cart.ID) || stay.Status != entity.LineStatusPending {
			return notFound("room stay")
		}
		return s.repo.RoomStay.Delete(ctx, stay.ID)
	})
}

func (s *cartService) RemoveService(ctx context.Context, userID, bookingID string) (*response.CartTotalResponse, error) {
	id, err := parseID(bookingID, "service booking ID")
	if err != nil {
		return nil, err
	}

	return s.removeItem(ctx, userID, "service booking", func(ctx context.Context, cart *entity.Cart) error {
		booking, err := s.repo.ServiceBooking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil || !inCart(booking.CartID, cart.ID) || booking.Status != entity.LineStatusPending {
			return notFound("service booking")
		}
		return s.repo.ServiceBooking.Delete(ctx, booking.ID)
	})
}

// removeItem deletes one pending item of the active cart and returns the new total.
func (s *cartService) removeItem(ctx context.Context, userID, kind string, remove func(context.Context, *entity.Cart) error) (*response.CartTotalResponse, error) {
	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	var total entity.Money
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.repo.Cart.LockActiveByCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}
		if cart == nil {
			return notFound("active cart")
		}

		if err := remove(ctx, cart); err != nil {
			return err
		}

		if err := refreshCartTotal(ctx, s.repo, cart); err != nil {
			return err
		}
		total = cart.Total
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Failed to remove "+kind, zap.Error(err), zap.String("customer_id", customer.ID.String()))
		}
		return nil, err
	}

	s.log.Info("Removed "+kind+" from cart",
		zap.String("customer_id", customer.ID.String()),
		zap.String("total", total.String()),
	)

	return &response.CartTotalResponse{Total: total}, nil
}

func inCart(itemCart *uuid.UUID, cartID uuid.UUID) bool {
	return itemCart != nil && *itemCart == cartID
}
