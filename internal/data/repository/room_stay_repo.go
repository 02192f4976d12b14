package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomStayRepository interface {
	// Create fails with ErrRoomTaken when the room already has a
	// non-cancelled stay overlapping the new one.
	Create(ctx context.Context, stay *entity.RoomStay) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomStay, error)
	FindByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.RoomStay, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.RoomStay, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.RoomStay, error)
	CountAll(ctx context.Context) (int64, error)

	// FindOverlapping returns non-cancelled stays on rooms of the category
	// whose [start, end) range intersects the given one.
	FindOverlapping(ctx context.Context, categoryID uuid.UUID, start, end time.Time) ([]*entity.RoomStay, error)

	// UpdateStatus moves a stay from one status to another. Zero rows
	// matched (wrong id or status changed meanwhile) is ErrNotFound.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.LineStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomStayRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomStayRepository(db database.PgxIface, log *zap.Logger) RoomStayRepository {
	return &roomStayRepository{
		db:  db,
		log: log.With(zap.String("repository", "room_stay")),
	}
}

const roomStayColumns = `s.id, s.start_date, s.end_date, s.status, s.price_cents, s.customer_id,
		       s.guest_name, s.room_id, s.cart_id, s.created_at, s.updated_at`

func scanRoomStay(row pgx.Row) (*entity.RoomStay, error) {
	var s entity.RoomStay
	err := row.Scan(
		&s.ID,
		&s.StartDate,
		&s.EndDate,
		&s.Status,
		&s.Price,
		&s.CustomerID,
		&s.GuestName,
		&s.RoomID,
		&s.CartID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *roomStayRepository) Create(ctx context.Context, stay *entity.RoomStay) error {
	query := `
		INSERT INTO room_stays (id, start_date, end_date, status, price_cents, customer_id,
		                        guest_name, room_id, cart_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		stay.ID,
		stay.StartDate,
		stay.EndDate,
		stay.Status,
		stay.Price,
		stay.CustomerID,
		stay.GuestName,
		stay.RoomID,
		stay.CartID,
		stay.CreatedAt,
		stay.UpdatedAt,
	)
	if err != nil {
		err = mapPgError(err)
		if errors.Is(err, ErrRoomTaken) {
			r.log.Warn("Room stay rejected by overlap constraint",
				zap.String("room_id", stay.RoomID.String()),
				zap.Time("start", stay.StartDate),
				zap.Time("end", stay.EndDate),
			)
		} else {
			r.log.Error("Failed to create room stay",
				zap.Error(err),
				zap.String("room_id", stay.RoomID.String()),
			)
		}
		return fmt.Errorf("create room stay on room %s: %w", stay.RoomID.String(), err)
	}

	return nil
}

func (r *roomStayRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomStay, error) {
	query := `SELECT ` + roomStayColumns + ` FROM room_stays s WHERE s.id = $1`

	stay, err := scanRoomStay(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room stay", zap.Error(err), zap.String("stay_id", id.String()))
		return nil, fmt.Errorf("find room stay %s: %w", id.String(), err)
	}

	return stay, nil
}

func (r *roomStayRepository) FindByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.RoomStay, error) {
	query := `
		SELECT ` + roomStayColumns + `
		FROM room_stays s
		WHERE s.cart_id = $1
		ORDER BY s.created_at
	`
	return r.queryStays(ctx, "find room stays by cart", query, cartID)
}

func (r *roomStayRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.RoomStay, error) {
	query := `
		SELECT ` + roomStayColumns + `
		FROM room_stays s
		WHERE s.customer_id = $1 AND s.status = $2
		ORDER BY s.start_date DESC
	`
	return r.queryStays(ctx, "find room stays by customer", query, customerID, status)
}

func (r *roomStayRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.RoomStay, error) {
	query := `
		SELECT ` + roomStayColumns + `
		FROM room_stays s
		ORDER BY s.start_date DESC, s.created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryStays(ctx, "find all room stays", query, limit, offset)
}

func (r *roomStayRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM room_stays`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count room stays", zap.Error(err))
		return 0, fmt.Errorf("count room stays: %w", err)
	}

	return count, nil
}

func (r *roomStayRepository) FindOverlapping(ctx context.Context, categoryID uuid.UUID, start, end time.Time) ([]*entity.RoomStay, error) {
	query := `
		SELECT ` + roomStayColumns + `
		FROM room_stays s
		JOIN rooms rm ON rm.id = s.room_id
		WHERE rm.category_id = $1
		  AND s.status <> 'cancelled'
		  AND s.start_date < $3
		  AND s.end_date > $2
	`
	return r.queryStays(ctx, "find overlapping room stays", query, categoryID, start, end)
}

func (r *roomStayRepository) queryStays(ctx context.Context, op, query string, args ...any) ([]*entity.RoomStay, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query room stays", zap.Error(err), zap.String("operation", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stays []*entity.RoomStay
	for rows.Next() {
		stay, err := scanRoomStay(rows)
		if err != nil {
			r.log.Error("Failed to scan room stay row", zap.Error(err))
			return nil, fmt.Errorf("scan room stay row: %w", err)
		}
		stays = append(stays, stay)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stays, nil
}

func (r *roomStayRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.LineStatus) error {
	query := `UPDATE room_stays SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update room stay status",
			zap.Error(err),
			zap.String("stay_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("update room stay %s status to %s: %w", id.String(), string(to), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room stay %s in status %s: %w", id.String(), string(from), ErrNotFound)
	}

	return nil
}

func (r *roomStayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM room_stays WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete room stay", zap.Error(err), zap.String("stay_id", id.String()))
		return fmt.Errorf("delete room stay %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room stay %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
