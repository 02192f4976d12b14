package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StaffService interface {
	CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.StaffResponse, error)
	PromoteToAdmin(ctx context.Context, userID string) (*response.StaffResponse, error)
	ListStaff(ctx context.Context, req *request.PaginatedRequest) ([]response.StaffResponse, error)
	ListCustomers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CustomerResponse], error)
}

type staffService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStaffService(repo *repository.Repository, log *zap.Logger) StaffService {
	return &staffService{
		repo: repo,
		log:  log.With(zap.String("service", "staff")),
	}
}

func (s *staffService) CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.StaffResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	var serviceID *uuid.UUID
	if req.ServiceID != nil && *req.ServiceID != "" {
		id, err := parseID(*req.ServiceID, "service ID")
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
		serviceID = &service.ID
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleStaff,
		IsAdmin:      req.IsAdmin,
		ManagesRooms: req.ManagesRooms,
		ServiceID:    serviceID,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("Staff member created",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_admin", user.IsAdmin),
		zap.Bool("manages_rooms", user.ManagesRooms),
	)

	resp := response.StaffToResponse(user)
	return &resp, nil
}

func (s *staffService) PromoteToAdmin(ctx context.Context, userID string) (*response.StaffResponse, error) {
	id, err := parseID(userID, "user ID")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if user == nil || user.Role != entity.RoleStaff {
		return nil, notFound("staff member")
	}
	if user.IsAdmin {
		return nil, newError(ErrConflict, "staff member is already an admin")
	}

	user.IsAdmin = true
	if err := s.repo.User.UpdateAccess(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Staff member promoted", zap.String("user_id", user.ID.String()))

	resp := response.StaffToResponse(user)
	return &resp, nil
}

func (s *staffService) ListStaff(ctx context.Context, req *request.PaginatedRequest) ([]response.StaffResponse, error) {
	users, err := s.repo.User.FindStaff(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	out := make([]response.StaffResponse, 0, len(users))
	for _, u := range users {
		out = append(out, response.StaffToResponse(u))
	}
	return out, nil
}

func (s *staffService) ListCustomers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CustomerResponse], error) {
	customers, err := s.repo.Customer.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	total, err := s.repo.Customer.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	out := make([]response.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, response.CustomerToResponse(c))
	}

	s.log.Debug("Customers retrieved", zap.Int("count", len(out)), zap.Int64("total", total))

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}
