package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no OTP record matches the contact.
var ErrNotFound = errors.New("otp not found")

// Repository persists OTP records. Multiple records may exist per contact;
// FindLatest always returns the most recently created one.
type Repository interface {
	Create(ctx context.Context, record Otp) error
	FindLatest(ctx context.Context, contact Contact) (Otp, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed OTP repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new OTP record.
func (r *PostgresRepository) Create(ctx context.Context, record Otp) error {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO otps (id, email, phone, code, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, id, record.Email, record.Phone, record.Code, record.ExpiresAt.UTC(), record.CreatedAt.UTC())
	return err
}

// FindLatest returns the most recently created record for the contact. The
// email column is matched when the contact carries an email, otherwise phone.
func (r *PostgresRepository) FindLatest(ctx context.Context, contact Contact) (Otp, error) {
	column, value := "phone", contact.Phone
	if contact.Email != "" {
		column, value = "email", contact.Email
	}

	row := r.db.QueryRow(ctx, `SELECT id, email, phone, code, expires_at, created_at FROM otps
        WHERE `+column+` = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, value)

	var (
		id        uuid.UUID
		record    Otp
		expiresAt time.Time
		createdAt time.Time
	)
	if err := row.Scan(&id, &record.Email, &record.Phone, &record.Code, &expiresAt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Otp{}, ErrNotFound
		}
		return Otp{}, err
	}
	record.ID = id.String()
	record.ExpiresAt = expiresAt.UTC()
	record.CreatedAt = createdAt.UTC()
	return record, nil
}

// Delete removes a record by identifier.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM otps WHERE id = $1`, recordID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes all records whose expiry precedes the given time.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM otps WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
