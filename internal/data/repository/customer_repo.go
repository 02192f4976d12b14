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

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	CountAll(ctx context.Context) (int64, error)

	// Loyalty ledger
	DeductPoints(ctx context.Context, id uuid.UUID, points int) (int, error)
	CreditPoints(ctx context.Context, id uuid.UUID, points int) (int, error)
}

type customerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCustomerRepository(db database.PgxIface, log *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log.With(zap.String("repository", "customer")),
	}
}

const customerColumns = `id, user_id, first_name, last_name, address, birth_date, points_balance,
		       created_at, updated_at, deleted_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Address,
		&c.BirthDate,
		&c.PointsBalance,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, first_name, last_name, address, birth_date,
		                       points_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		customer.ID,
		customer.UserID,
		customer.FirstName,
		customer.LastName,
		customer.Address,
		customer.BirthDate,
		customer.PointsBalance,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create customer",
			zap.Error(err),
			zap.String("user_id", customer.UserID.String()),
		)
		return fmt.Errorf("create customer for user %s: %w", customer.UserID.String(), mapPgError(err))
	}

	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND deleted_at IS NULL`

	customer, err := scanCustomer(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by ID",
			zap.Error(err),
			zap.String("customer_id", id.String()),
		)
		return nil, fmt.Errorf("find customer by ID %s: %w", id.String(), err)
	}

	return customer, nil
}

func (r *customerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND deleted_at IS NULL`

	customer, err := scanCustomer(database.Conn(ctx, r.db).QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find customer by user ID %s: %w", userID.String(), err)
	}

	return customer, nil
}

func (r *customerRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("find all customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			r.log.Error("Failed to scan customer row", zap.Error(err))
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

func (r *customerRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count customers", zap.Error(err))
		return 0, fmt.Errorf("count customers: %w", err)
	}

	return count, nil
}

// DeductPoints subtracts points only when the balance covers them and
// returns the new balance.
func (r *customerRepository) DeductPoints(ctx context.Context, id uuid.UUID, points int) (int, error) {
	if points < 0 {
		return 0, fmt.Errorf("deduct %d points: amount must not be negative", points)
	}

	query := `
		UPDATE customers
		SET points_balance = points_balance - $2, updated_at = NOW()
		WHERE id = $1 AND points_balance >= $2 AND deleted_at IS NULL
		RETURNING points_balance
	`

	var balance int
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id, points).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("customer %s: %w", id.String(), ErrInsufficientPoints)
	}
	if err != nil {
		r.log.Error("Failed to deduct points",
			zap.Error(err),
			zap.String("customer_id", id.String()),
			zap.Int("points", points),
		)
		return 0, fmt.Errorf("deduct points for customer %s: %w", id.String(), err)
	}

	return balance, nil
}

// CreditPoints adds points and returns the new balance.
func (r *customerRepository) CreditPoints(ctx context.Context, id uuid.UUID, points int) (int, error) {
	if points < 0 {
		return 0, fmt.Errorf("credit %d points: amount must not be negative", points)
	}

	query := `
		UPDATE customers
		SET points_balance = points_balance + $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING points_balance
	`

	var balance int
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id, points).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("customer %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to credit points",
			zap.Error(err),
			zap.String("customer_id", id.String()),
			zap.Int("points", points),
		)
		return 0, fmt.Errorf("credit points for customer %s: %w", id.String(), err)
	}

	return balance, nil
}
