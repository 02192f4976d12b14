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

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Room, error)
	// LockByCategory is FindByCategory with row locks held until the
	// surrounding transaction ends. It serializes claims on a category.
	LockByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Room, error)
	UpdateState(ctx context.Context, id uuid.UUID, state entity.RoomState) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	query := `
		INSERT INTO rooms (id, number, category_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		room.ID,
		room.Number,
		room.CategoryID,
		room.State,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create room", zap.Error(err), zap.String("number", room.Number))
		return fmt.Errorf("create room %s: %w", room.Number, mapPgError(err))
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT id, number, category_id, state, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room entity.Room
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Number,
		&room.CategoryID,
		&room.State,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room", zap.Error(err), zap.String("room_id", id.String()))
		return nil, fmt.Errorf("find room %s: %w", id.String(), err)
	}

	return &room, nil
}

func (r *roomRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Room, error) {
	query := `
		SELECT id, number, category_id, state, created_at, updated_at
		FROM rooms
		WHERE category_id = $1
		ORDER BY number
	`
	return r.queryRooms(ctx, query, categoryID)
}

func (r *roomRepository) LockByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Room, error) {
	query := `
		SELECT id, number, category_id, state, created_at, updated_at
		FROM rooms
		WHERE category_id = $1
		ORDER BY number
		FOR UPDATE
	`
	return r.queryRooms(ctx, query, categoryID)
}

func (r *roomRepository) queryRooms(ctx context.Context, query string, categoryID uuid.UUID) ([]*entity.Room, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, categoryID)
	if err != nil {
		r.log.Error("Failed to find rooms by category",
			zap.Error(err),
			zap.String("category_id", categoryID.String()),
		)
		return nil, fmt.Errorf("find rooms by category %s: %w", categoryID.String(), err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		var room entity.Room
		if err := rows.Scan(
			&room.ID,
			&room.Number,
			&room.CategoryID,
			&room.State,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

func (r *roomRepository) UpdateState(ctx context.Context, id uuid.UUID, state entity.RoomState) error {
	query := `UPDATE rooms SET state = $2, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, state)
	if err != nil {
		r.log.Error("Failed to update room state",
			zap.Error(err),
			zap.String("room_id", id.String()),
			zap.String("state", string(state)),
		)
		return fmt.Errorf("update room %s state to %s: %w", id.String(), string(state), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete room", zap.Error(err), zap.String("room_id", id.String()))
		return fmt.Errorf("delete room %s: %w", id.String(), mapPgError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}
