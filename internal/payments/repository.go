package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no payment matches the identifier.
var ErrNotFound = errors.New("payment not found")

// Repository persists payments.
type Repository interface {
	Create(ctx context.Context, payment Payment) error
	Get(ctx context.Context, id string) (Payment, error)
	List(ctx context.Context) ([]Payment, error)
	UpdateBillFor(ctx context.Context, id, billFor string) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payment repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new payment.
func (r *PostgresRepository) Create(ctx context.Context, payment Payment) error {
	id, err := uuid.Parse(payment.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO payments (id, date, bill_for, account, amount, method, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, payment.Date.UTC(), payment.BillFor, payment.Account, payment.Amount, payment.Method, payment.Status, payment.CreatedAt.UTC())
	return err
}

// Get fetches a payment by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return Payment{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, date, bill_for, account, amount, method, status, created_at
        FROM payments WHERE id = $1`, paymentID)
	return scanPayment(row)
}

// List returns all payments, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, date, bill_for, account, amount, method, status, created_at
        FROM payments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// UpdateBillFor changes the billing description of an existing payment.
func (r *PostgresRepository) UpdateBillFor(ctx context.Context, id, billFor string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE payments SET bill_for = $1 WHERE id = $2`, billFor, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a payment by identifier.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (Payment, error) {
	var (
		id        uuid.UUID
		date      time.Time
		createdAt time.Time
		payment   Payment
	)
	if err := row.Scan(&id, &date, &payment.BillFor, &payment.Account, &payment.Amount, &payment.Method, &payment.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	payment.ID = id.String()
	payment.Date = date.UTC()
	payment.CreatedAt = createdAt.UTC()
	return payment, nil
}
