package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/metrics"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCalendarDays bounds the unavailable-dates scan.
const maxCalendarDays = 366

type AvailabilityService interface {
	FindAvailableRoom(ctx context.Context, categoryID uuid.UUID, start, end time.Time) (*entity.Room, error)
	CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	ListUnavailableDates(ctx context.Context, req *request.UnavailableDatesRequest) ([]string, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) FindAvailableRoom(ctx context.Context, categoryID uuid.UUID, start, end time.Time) (*entity.Room, error) {
	if !start.Before(end) {
		return nil, validationError("start date must be before end date")
	}

	free, err := availableRooms(ctx, s.repo, categoryID, start, end, false)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, ErrNoAvailability
	}
	return free[0], nil
}

func (s *availabilityService) CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	categoryID, err := parseID(req.TypeID, "room category ID")
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

	free, err := availableRooms(ctx, s.repo, categoryID, start, end, false)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(free))
	for _, room := range free {
		ids = append(ids, room.ID.String())
	}

	resp := &response.AvailabilityResponse{
		Available:        len(free) > 0,
		Count:            len(free),
		AvailableRoomIDs: ids,
	}
	if len(free) == 0 {
		resp.Message = "No rooms available for the selected dates"
	}

	s.log.Debug("Availability checked",
		zap.String("category_id", categoryID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("free", len(free)),
	)

	return resp, nil
}

// ListUnavailableDates returns every day in [start, end] on which all rooms
// of the category are occupied.
func (s *availabilityService) ListUnavailableDates(ctx context.Context, req *request.UnavailableDatesRequest) ([]string, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	categoryID, err := parseID(req.TypeID, "room category ID")
	if err != nil {
		return nil, err
	}
	start, err := utils.ParseDate(req.Start)
	if err != nil {
		return nil, validationError("%v", err)
	}
	end, err := utils.ParseDate(req.End)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if end.Before(start) {
		return nil, validationError("start date must not be after end date")
	}
	if Nights(start, end) >= maxCalendarDays {
		return nil, validationError("date range must not exceed %d days", maxCalendarDays)
	}

	rooms, err := s.repo.Room.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find rooms of category %s: %w", categoryID, err)
	}
	dates := []string{}
	if len(rooms) == 0 {
		return dates, nil
	}

	stays, err := s.repo.RoomStay.FindOverlapping(ctx, categoryID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("find stays of category %s: %w", categoryID, err)
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		booked := 0
		for _, stay := range stays {
			if stay.Status.OccupiesRoom() && stay.CoversDay(day) {
				booked++
			}
		}
		if booked >= len(rooms) {
			dates = append(dates, utils.FormatDate(day))
		}
	}

	return dates, nil
}

// availableRooms lists rooms of the category with no live stay overlapping
// [start, end), ordered by room number. With lock set the room rows stay
// locked until the surrounding transaction ends.
func availableRooms(ctx context.Context, repo *repository.Repository, categoryID uuid.UUID, start, end time.Time, lock bool) ([]*entity.Room, error) {
	var (
		rooms []*entity.Room
		err   error
	)
	if lock {
		rooms, err = repo.Room.LockByCategory(ctx, categoryID)
	} else {
		rooms, err = repo.Room.FindByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("find rooms of category %s: %w", categoryID, err)
	}
	if len(rooms) == 0 {
		return nil, nil
	}

	stays, err := repo.RoomStay.FindOverlapping(ctx, categoryID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find overlapping stays: %w", err)
	}

	return freeRooms(rooms, stays, start, end), nil
}

func freeRooms(rooms []*entity.Room, stays []*entity.RoomStay, start, end time.Time) []*entity.Room {
	taken := make(map[uuid.UUID]struct{}, len(stays))
	for _, stay := range stays {
		if stay.Status.OccupiesRoom() && stay.Overlaps(start, end) {
			taken[stay.RoomID] = struct{}{}
		}
	}

	free := make([]*entity.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := taken[room.ID]; !ok {
			free = append(free, room)
		}
	}
	return free
}

// claimRoom picks a free room under lock. Must run inside a transaction.
func claimRoom(ctx context.Context, repo *repository.Repository, categoryID uuid.UUID, start, end time.Time) (*entity.Room, error) {
	free, err := availableRooms(ctx, repo, categoryID, start, end, true)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		metrics.RoomClaimConflicts.Inc()
		return nil, ErrNoAvailability
	}
	return free[0], nil
}
