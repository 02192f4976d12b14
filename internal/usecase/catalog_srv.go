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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
	GetCategory(ctx context.Context, categoryID string) (*response.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	DeleteRoom(ctx context.Context, roomID string) error

	ListServices(ctx context.Context) ([]response.ServiceResponse, error)
	GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error)
	CreateService(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		rooms, err := s.repo.Room.FindByCategory(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count rooms of category %s: %w", c.ID, err)
		}
		out = append(out, response.CategoryToResponse(c, len(rooms)))
	}
	return out, nil
}

func (s *catalogService) GetCategory(ctx context.Context, categoryID string) (*response.CategoryResponse, error) {
	id, err := parseID(categoryID, "room category ID")
	if err != nil {
		return nil, err
	}

	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", id, err)
	}
	if category == nil {
		return nil, notFound("room category")
	}

	rooms, err := s.repo.Room.FindByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count rooms of category %s: %w", id, err)
	}

	resp := response.CategoryToResponse(category, len(rooms))
	return &resp, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &entity.RoomCategory{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         req.Name,
		Description:  req.Description,
		Capacity:     req.Capacity,
		NightlyRate:  req.NightlyRate,
		ImagePath:    req.ImagePath,
		View:         req.View,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "room category name already exists")
		}
		return nil, err
	}

	s.log.Info("Room category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
		zap.String("rate", category.NightlyRate.String()),
	)

	resp := response.CategoryToResponse(category, 0)
	return &resp, nil
}

func (s *catalogService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	categoryID, err := parseID(req.CategoryID, "room category ID")
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

	now := time.Now()
	room := &entity.Room{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Number:       req.Number,
		CategoryID:   category.ID,
		State:        entity.RoomStateAvailable,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "room number already exists")
		}
		return nil, err
	}

	s.log.Info("Room created", zap.String("room_id", room.ID.String()), zap.String("number", room.Number))

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, roomID string) error {
	id, err := parseID(roomID, "room ID")
	if err != nil {
		return err
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound("room")
		case errors.Is(err, repository.ErrInUse):
			return newError(ErrConflict, "room has reservations")
		}
		return err
	}

	s.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

func (s *catalogService) ListServices(ctx context.Context) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	out := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, response.ServiceToResponse(svc))
	}
	return out, nil
}

func (s *catalogService) GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	id, err := parseID(serviceID, "service ID")
	if err != nil {
		return nil, err
	}

	service, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service %s: %w", id, err)
	}
	if service == nil {
		return nil, notFound("service")
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) CreateService(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	service := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		ImagePath:    req.ImagePath,
	}

	if err := s.repo.Service.Create(ctx, service); err != nil {
		return nil, err
	}

	s.log.Info("Service created", zap.String("service_id", service.ID.String()), zap.String("name", service.Name))

	resp := response.ServiceToResponse(service)
	return &resp, nil
}
