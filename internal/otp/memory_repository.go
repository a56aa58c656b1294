package otp

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Otp
}

// NewMemoryRepository builds an in-memory OTP store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, record Otp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// FindLatest scans newest-insertion-first so records created in the same
// wall-clock instant still resolve to the most recent one.
func (r *memoryRepository) FindLatest(_ context.Context, contact Contact) (Otp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		record := r.records[i]
		if contact.Email != "" {
			if record.Email == contact.Email {
				return record, nil
			}
			continue
		}
		if record.Phone == contact.Phone {
			return record, nil
		}
	}
	return Otp{}, ErrNotFound
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, record := range r.records {
		if record.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	var removed int64
	for _, record := range r.records {
		if record.ExpiresAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return removed, nil
}
