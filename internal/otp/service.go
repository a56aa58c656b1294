package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/veribill/veribill/internal/notification"
)

// Code space: 6 decimal digits, drawn uniformly from [100000, 999999].
const (
	codeMin  = 100000
	codeSpan = 900000
)

var (
	// ErrMethodRequired indicates the delivery method is missing or unknown.
	ErrMethodRequired = errors.New("verification method required")
	// ErrContactRequired indicates the contact field for the chosen channel is missing.
	ErrContactRequired = errors.New("email or phone required")
	// ErrInvalidCode indicates the supplied code does not match the stored one.
	// The record stays intact, so the attempt is retriable.
	ErrInvalidCode = errors.New("invalid otp")
	// ErrExpired indicates the code was presented after its expiry.
	ErrExpired = errors.New("otp expired")
	// ErrDelivery indicates the notification dispatch failed. The persisted
	// record is not rolled back; issuance and delivery are not atomic.
	ErrDelivery = errors.New("otp delivery failed")
)

// Service implements the OTP issuance/verification state machine:
// Issued -> Verified (deleted) | Expired (inert) | invalid attempt (persists).
type Service struct {
	repo   Repository
	mailer notification.Mailer
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds an OTP service. ttl bounds the verification window.
func NewService(repo Repository, mailer notification.Mailer, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, ttl: ttl, logger: logger}
}

// Issue generates a code for the contact, persists it and dispatches it over
// the requested channel. Email goes through the mailer; phone is a simulated
// SMS written to the log.
func (s *Service) Issue(ctx context.Context, contact Contact, method string) (Otp, error) {
	switch method {
	case MethodEmail:
		if contact.Email == "" {
			return Otp{}, fmt.Errorf("%w: method is email", ErrContactRequired)
		}
	case MethodPhone:
		if contact.Phone == "" {
			return Otp{}, fmt.Errorf("%w: method is phone", ErrContactRequired)
		}
	case "":
		return Otp{}, ErrMethodRequired
	default:
		return Otp{}, fmt.Errorf("%w: unknown method %q", ErrMethodRequired, method)
	}

	code, err := generateCode()
	if err != nil {
		return Otp{}, fmt.Errorf("generate code: %w", err)
	}

	now := time.Now().UTC()
	record := Otp{
		ID:        uuid.New().String(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return Otp{}, fmt.Errorf("persist otp: %w", err)
	}

	switch method {
	case MethodEmail:
		email := notification.Email{
			To:      contact.Email,
			Subject: "Your Verification Code",
			Body:    fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(s.ttl.Minutes())),
		}
		if err := s.mailer.Send(ctx, email); err != nil {
			s.logger.Error("otp mail dispatch failed", "to", contact.Email, "error", err)
			return Otp{}, fmt.Errorf("%w: %v", ErrDelivery, err)
		}
		s.logger.Info("otp sent", "channel", MethodEmail, "to", contact.Email)
	case MethodPhone:
		// No SMS gateway: delivery is simulated by logging the code.
		s.logger.Info("simulated SMS", "to", contact.Phone, "code", code)
	}

	return record, nil
}

// Verify checks the candidate code against the latest record for the contact
// and consumes the record on success. An invalid code leaves the record in
// place; an expired record is left for the sweep.
func (s *Service) Verify(ctx context.Context, contact Contact, code string) error {
	if contact.empty() {
		return ErrContactRequired
	}

	record, err := s.repo.FindLatest(ctx, contact)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return ErrInvalidCode
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrExpired
	}

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// PurgeExpired deletes every record past its expiry and reports how many were
// removed. Scheduled periodically so the table does not grow without bound.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired otps: %w", err)
	}
	if removed > 0 {
		s.logger.Info("expired otps purged", "count", removed)
	}
	return removed, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
