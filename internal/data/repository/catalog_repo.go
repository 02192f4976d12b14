package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.RoomCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomCategory, error)
	FindAll(ctx context.Context) ([]*entity.RoomCategory, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindAll(ctx context.Context) ([]*entity.Service, error)
}

type categoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "category")),
	}
}

const categoryColumns = `id, name, description, capacity, nightly_rate_cents, image_path, view, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.RoomCategory, error) {
	var c entity.RoomCategory
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Capacity,
		&c.NightlyRate,
		&c.ImagePath,
		&c.View,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.RoomCategory) error {
	query := `
		INSERT INTO room_categories (id, name, description, capacity, nightly_rate_cents,
		                             image_path, view, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Capacity,
		category.NightlyRate,
		category.ImagePath,
		category.View,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create room category", zap.Error(err), zap.String("name", category.Name))
		return fmt.Errorf("create room category %s: %w", category.Name, mapPgError(err))
	}

	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM room_categories WHERE id = $1`

	category, err := scanCategory(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room category", zap.Error(err), zap.String("category_id", id.String()))
		return nil, fmt.Errorf("find room category %s: %w", id.String(), err)
	}

	return category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.RoomCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM room_categories ORDER BY nightly_rate_cents, name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list room categories", zap.Error(err))
		return nil, fmt.Errorf("find all room categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.RoomCategory
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			r.log.Error("Failed to scan room category row", zap.Error(err))
			return nil, fmt.Errorf("scan room category row: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

const serviceColumns = `id, name, description, price_cents, category, image_path, created_at, updated_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Price,
		&s.Category,
		&s.ImagePath,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (id, name, description, price_cents, category, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		service.ID,
		service.Name,
		service.Description,
		service.Price,
		service.Category,
		service.ImagePath,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service", zap.Error(err), zap.String("name", service.Name))
		return fmt.Errorf("create service %s: %w", service.Name, mapPgError(err))
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	service, err := scanService(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", id.String()))
		return nil, fmt.Errorf("find service %s: %w", id.String(), err)
	}

	return service, nil
}

func (r *serviceRepository) FindAll(ctx context.Context) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY category, name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("find all services: %w", err)
	}
	defer rows.Close()

	var services []*entity.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, service)
	}

	return services, rows.Err()
}
