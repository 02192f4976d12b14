package usecase

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Room stays outside the cart
	BookRoom(ctx context.Context, userID string, req *request.BookRoomRequest) (*response.RoomStayResponse, error)
	StaffBookRoom(ctx context.Context, access entity.Access, req *request.StaffBookRoomRequest) (*response.RoomStayResponse, error)
	MyReservations(ctx context.Context, userID string) ([]response.RoomStayResponse, error)
	ListReservations(ctx context.Context, access entity.Access, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RoomStayResponse], error)
	CompleteRoomStay(ctx context.Context, access entity.Access, stayID string) (*response.RoomStayResponse, error)
	CancelRoomStay(ctx context.Context, access entity.Access, stayID string) (*response.RoomStayResponse, error)

	// Services
	ReserveService(ctx context.Context, access entity.Access, serviceID string, req *request.ReserveServiceRequest) (*response.ServiceBookingResponse, error)
	ListServiceReservations(ctx context.Context, access entity.Access, req *request.PaginatedRequest) ([]response.ServiceBookingResponse, error)
	CompleteService(ctx context.Context, access entity.Access, bookingID string) (*response.ServiceBookingResponse, error)
}

type reservationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReservationService(repo *repository.Repository, log *zap.Logger) ReservationService {
	return &reservationService{
		repo: repo,
		log:  log.With(zap.String("service", "reservation")),
	}
}

// BookRoom books and confirms a room for the calling customer without the cart.
func (s *reservationService) BookRoom(ctx context.Context, userID string, req *request.BookRoomRequest) (*response.RoomStayResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	return s.bookRoom(ctx, entity.OriginDirect, entity.Holder{CustomerID: &customer.ID}, req)
}

// StaffBookRoom books a room for a registered customer or a walk-in guest.
func (s *reservationService) StaffBookRoom(ctx context.Context, access entity.Access, req *request.StaffBookRoomRequest) (*response.RoomStayResponse, error) {
	if !access.CanManageRooms() {
		return nil, forbidden("room management access required")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	holder, err := holderFor(ctx, s.repo, req.CustomerID, req.GuestName)
	if err != nil {
		return nil, err
	}

	return s.bookRoom(ctx, entity.OriginStaff, holder, &req.BookRoomRequest)
}

func (s *reservationService) bookRoom(ctx context.Context, origin entity.Origin, holder entity.Holder, req *request.BookRoomRequest) (*response.RoomStayResponse, error) {
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
		room, err := claimRoom(ctx, s.repo, category.ID, start, end)
		if err != nil {
			return err
		}

		price := PriceRoomStay(category.NightlyRate, start, end)
		stay = entity.NewRoomStay(origin, holder, room.ID, nil, start, end, price)
		if err := s.repo.RoomStay.Create(ctx, stay); err != nil {
			if errors.Is(err, repository.ErrRoomTaken) {
				return ErrNoAvailability
			}
			return err
		}

		return s.repo.Room.UpdateState(ctx, room.ID, entity.RoomStateReserved)
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			s.log.Error("Failed to book room", zap.Error(err), zap.String("origin", origin.String()))
		}
		return nil, err
	}

	s.log.Info("Room booked",
		zap.String("origin", origin.String()),
		zap.String("stay_id", stay.ID.String()),
		zap.String("room_id", stay.RoomID.String()),
	)

	resp := response.RoomStayToResponse(stay)
	return &resp, nil
}

func (s *reservationService) MyReservations(ctx context.Context, userID string) ([]response.RoomStayResponse, error) {
	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	stays, err := s.repo.RoomStay.FindByCustomer(ctx, customer.ID, entity.LineStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}

	return response.RoomStaysToResponse(stays), nil
}

func (s *reservationService) ListReservations(ctx context.Context, access entity.Access, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RoomStayResponse], error) {
	if !access.CanManageRooms() {
		return nil, forbidden("room management access required")
	}

	stays, err := s.repo.RoomStay.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	total, err := s.repo.RoomStay.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	return response.NewPaginatedResponse(response.RoomStaysToResponse(stays), req.Page, req.Limit(), total), nil
}

// CompleteRoomStay checks the guest out and frees the room.
func (s *reservationService) CompleteRoomStay(ctx context.Context, access entity.Access, stayID string) (*response.RoomStayResponse, error) {
	if !access.CanManageRooms() {
		return nil, forbidden("room management access required")
	}

	stay, err := s.findStay(ctx, stayID)
	if err != nil {
		return nil, err
	}
	if stay.Status == entity.LineStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	next, err := stay.Status.Transition(entity.LineStatusCompleted)
	if err != nil {
		return nil, transitionError(err)
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.RoomStay.UpdateStatus(ctx, stay.ID, stay.Status, next); err != nil {
			return err
		}
		return s.repo.Room.UpdateState(ctx, stay.RoomID, entity.RoomStateAvailable)
	})
	if err != nil {
		return nil, s.statusRace(err, "room stay")
	}
	stay.Status = next

	s.log.Info("Room stay completed",
		zap.String("stay_id", stay.ID.String()),
		zap.String("by", access.UserID.String()),
	)

	resp := response.RoomStayToResponse(stay)
	return &resp, nil
}

// CancelRoomStay cancels a pending or confirmed stay. A pending stay leaves
// its cart, whose total is recomputed.
func (s *reservationService) CancelRoomStay(ctx context.Context, access entity.Access, stayID string) (*response.RoomStayResponse, error) {
	if !access.CanAdminister() {
		return nil, forbidden("admin access required")
	}

	stay, err := s.findStay(ctx, stayID)
	if err != nil {
		return nil, err
	}
	next, err := stay.Status.Transition(entity.LineStatusCancelled)
	if err != nil {
		return nil, transitionError(err)
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.RoomStay.UpdateStatus(ctx, stay.ID, stay.Status, next); err != nil {
			return err
		}
		if stay.Status == entity.LineStatusConfirmed {
			if err := s.repo.Room.UpdateState(ctx, stay.RoomID, entity.RoomStateAvailable); err != nil {
				return err
			}
		}
		if stay.CartID == nil {
			return nil
		}
		cart, err := s.repo.Cart.LockActive(ctx, *stay.CartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return nil
		}
		return refreshCartTotal(ctx, s.repo, cart)
	})
	if err != nil {
		return nil, s.statusRace(err, "room stay")
	}
	stay.Status = next

	s.log.Info("Room stay cancelled",
		zap.String("stay_id", stay.ID.String()),
		zap.String("by", access.UserID.String()),
	)

	resp := response.RoomStayToResponse(stay)
	return &resp, nil
}

// ReserveService books a service. Customers go through the cart rules; staff
// book confirmed services for a customer or a guest on their own service.
func (s *reservationService) ReserveService(ctx context.Context, access entity.Access, serviceID string, req *request.ReserveServiceRequest) (*response.ServiceBookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID(serviceID, "service ID")
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, validationError("%v", err)
	}

	service, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service %s: %w", id, err)
	}
	if service == nil {
		return nil, notFound("service")
	}

	var booking *entity.ServiceBooking
	switch {
	case access.IsCustomer():
		customer, err := resolveCustomer(ctx, s.repo, access.UserID.String())
		if err != nil {
			return nil, err
		}
		booking, err = addServiceForCustomer(ctx, s.repo, customer, service, date, req.Time)
		if err != nil {
			return nil, err
		}

	case access.CanBookForGuests() && access.CanManageService(service.ID):
		holder, err := holderFor(ctx, s.repo, req.CustomerID, req.GuestName)
		if err != nil {
			return nil, err
		}
		booking = entity.NewServiceBooking(entity.OriginStaff, holder, service.ID, nil, date, req.Time, PriceService(service))
		if err := s.repo.ServiceBooking.Create(ctx, booking); err != nil {
			return nil, err
		}

	default:
		return nil, forbidden("not allowed to book this service")
	}

	s.log.Info("Service reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("service_id", service.ID.String()),
		zap.String("status", string(booking.Status)),
	)

	resp := response.ServiceBookingToResponse(booking)
	return &resp, nil
}

// ListServiceReservations shows admins every booking and other staff only
// the bookings of the service they run.
func (s *reservationService) ListServiceReservations(ctx context.Context, access entity.Access, req *request.PaginatedRequest) ([]response.ServiceBookingResponse, error) {
	if !access.IsStaff() {
		return nil, forbidden("staff access required")
	}

	var scope *uuid.UUID
	if !access.IsAdmin {
		if access.ServiceID == nil {
			return nil, forbidden("no service assigned")
		}
		scope = access.ServiceID
	}

	bookings, err := s.repo.ServiceBooking.FindByService(ctx, scope, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list service reservations: %w", err)
	}

	return response.ServiceBookingsToResponse(bookings), nil
}

func (s *reservationService) CompleteService(ctx context.Context, access entity.Access, bookingID string) (*response.ServiceBookingResponse, error) {
	id, err := parseID(bookingID, "service booking ID")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.ServiceBooking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service booking %s: %w", id, err)
	}
	if booking == nil {
		return nil, notFound("service booking")
	}
	if !access.CanManageService(booking.ServiceID) {
		return nil, forbidden("not allowed to manage this service")
	}
	if booking.Status == entity.LineStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	next, err := booking.Status.Transition(entity.LineStatusCompleted)
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.repo.ServiceBooking.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		return nil, s.statusRace(err, "service booking")
	}
	booking.Status = next

	s.log.Info("Service completed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("by", access.UserID.String()),
	)

	resp := response.ServiceBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) findStay(ctx context.Context, stayID string) (*entity.RoomStay, error) {
	id, err := parseID(stayID, "room stay ID")
	if err != nil {
		return nil, err
	}

	stay, err := s.repo.RoomStay.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find room stay %s: %w", id, err)
	}
	if stay == nil {
		return nil, notFound("room stay")
	}
	return stay, nil
}

// statusRace turns a lost conditional update into a conflict.
func (s *reservationService) statusRace(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrConflict, what+" was modified concurrently")
	}
	s.log.Error("Failed to update "+what, zap.Error(err))
	return err
}
