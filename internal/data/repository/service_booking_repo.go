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

type ServiceBookingRepository interface {
	Create(ctx context.Context, booking *entity.ServiceBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceBooking, error)
	FindByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.ServiceBooking, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.ServiceBooking, error)
	// FindByService lists bookings of one service, or of all services when serviceID is nil.
	FindByService(ctx context.Context, serviceID *uuid.UUID, limit, offset int) ([]*entity.ServiceBooking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.LineStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceBookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceBookingRepository(db database.PgxIface, log *zap.Logger) ServiceBookingRepository {
	return &serviceBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "service_booking")),
	}
}

const serviceBookingColumns = `id, booking_date, booking_time, status, price_cents, customer_id,
		       guest_name, service_id, cart_id, created_at, updated_at`

func scanServiceBooking(row pgx.Row) (*entity.ServiceBooking, error) {
	var b entity.ServiceBooking
	err := row.Scan(
		&b.ID,
		&b.Date,
		&b.Time,
		&b.Status,
		&b.Price,
		&b.CustomerID,
		&b.GuestName,
		&b.ServiceID,
		&b.CartID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *serviceBookingRepository) Create(ctx context.Context, booking *entity.ServiceBooking) error {
	query := `
		INSERT INTO service_bookings (id, booking_date, booking_time, status, price_cents, customer_id,
		                              guest_name, service_id, cart_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.Date,
		booking.Time,
		booking.Status,
		booking.Price,
		booking.CustomerID,
		booking.GuestName,
		booking.ServiceID,
		booking.CartID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service booking",
			zap.Error(err),
			zap.String("service_id", booking.ServiceID.String()),
		)
		return fmt.Errorf("create service booking for service %s: %w", booking.ServiceID.String(), mapPgError(err))
	}

	return nil
}

func (r *serviceBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceBooking, error) {
	query := `SELECT ` + serviceBookingColumns + ` FROM service_bookings WHERE id = $1`

	booking, err := scanServiceBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("find service booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *serviceBookingRepository) FindByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.ServiceBooking, error) {
	query := `
		SELECT ` + serviceBookingColumns + `
		FROM service_bookings
		WHERE cart_id = $1
		ORDER BY created_at
	`
	return r.queryBookings(ctx, "find service bookings by cart", query, cartID)
}

func (r *serviceBookingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.ServiceBooking, error) {
	query := `
		SELECT ` + serviceBookingColumns + `
		FROM service_bookings
		WHERE customer_id = $1 AND status = $2
		ORDER BY booking_date DESC, booking_time DESC
	`
	return r.queryBookings(ctx, "find service bookings by customer", query, customerID, status)
}

func (r *serviceBookingRepository) FindByService(ctx context.Context, serviceID *uuid.UUID, limit, offset int) ([]*entity.ServiceBooking, error) {
	query := `
		SELECT ` + serviceBookingColumns + `
		FROM service_bookings
		WHERE ($1::uuid IS NULL OR service_id = $1)
		ORDER BY booking_date DESC, booking_time DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryBookings(ctx, "find service bookings by service", query, serviceID, limit, offset)
}

func (r *serviceBookingRepository) queryBookings(ctx context.Context, op, query string, args ...any) ([]*entity.ServiceBooking, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query service bookings", zap.Error(err), zap.String("operation", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*entity.ServiceBooking
	for rows.Next() {
		booking, err := scanServiceBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan service booking row", zap.Error(err))
			return nil, fmt.Errorf("scan service booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

func (r *serviceBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.LineStatus) error {
	query := `UPDATE service_bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update service booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("update service booking %s status to %s: %w", id.String(), string(to), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service booking %s in status %s: %w", id.String(), string(from), ErrNotFound)
	}

	return nil
}

func (r *serviceBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM service_bookings WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete service booking", zap.Error(err), zap.String("booking_id", id.String()))
		return fmt.Errorf("delete service booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service booking %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
