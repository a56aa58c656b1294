package payments

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Service implements payment CRUD. Creation synthesizes the account and
// amount; they are placeholders standing in for a payment-processor
// integration and need no cryptographic randomness.
type Service struct {
	repo Repository
}

// NewService constructs a payment service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a payment for the given billing description. The account is
// "ACC" plus up to four random digits and the amount is a random value in
// [0, 100) truncated to two decimals.
func (s *Service) Create(ctx context.Context, billFor string) (Payment, error) {
	now := time.Now().UTC()
	payment := Payment{
		ID:        uuid.New().String(),
		Date:      now,
		BillFor:   billFor,
		Account:   fmt.Sprintf("ACC%d", rand.IntN(10000)),
		Amount:    math.Floor(rand.Float64()*100*100) / 100,
		Method:    methodCreditCard,
		Status:    statusSuccess,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return Payment{}, fmt.Errorf("persist payment: %w", err)
	}
	return payment, nil
}

// List returns all payments, newest first.
func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

// Update changes the billing description of a payment. An empty billFor
// leaves the current description untouched; every other field is immutable.
func (s *Service) Update(ctx context.Context, id, billFor string) (Payment, error) {
	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	if billFor == "" || billFor == payment.BillFor {
		return payment, nil
	}
	if err := s.repo.UpdateBillFor(ctx, id, billFor); err != nil {
		return Payment{}, err
	}
	payment.BillFor = billFor
	return payment, nil
}

// Delete removes a payment. ErrNotFound distinguishes a missing record from a
// successful delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
