package otp

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veribill/veribill/internal/logging"
	"github.com/veribill/veribill/internal/notification"
)

type stubMailer struct {
	sent []notification.Email
	err  error
}

func (m *stubMailer) Send(_ context.Context, email notification.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func newTestService(mailer notification.Mailer) (*Service, Repository) {
	repo := NewMemoryRepository()
	return NewService(repo, mailer, 5*time.Minute, logging.Discard()), repo
}

var codePattern = regexp.MustCompile(`^\d{6}$`)

func TestIssueEmailPersistsAndDelivers(t *testing.T) {
	mailer := &stubMailer{}
	svc, repo := newTestService(mailer)
	ctx := context.Background()

	record, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, MethodEmail)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !codePattern.MatchString(record.Code) {
		t.Fatalf("expected 6-digit code, got %q", record.Code)
	}
	window := record.ExpiresAt.Sub(record.CreatedAt)
	if window != 5*time.Minute {
		t.Fatalf("expected 5m validity window, got %s", window)
	}

	stored, err := repo.FindLatest(ctx, Contact{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
	if stored.Code != record.Code {
		t.Fatalf("stored code mismatch")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "a@b.com" || !strings.Contains(mailer.sent[0].Body, record.Code) {
		t.Fatalf("mail does not carry the code: %+v", mailer.sent[0])
	}
}

func TestIssuePhoneSkipsMailer(t *testing.T) {
	mailer := &stubMailer{}
	svc, repo := newTestService(mailer)
	ctx := context.Background()

	if _, err := svc.Issue(ctx, Contact{Phone: "+15550001111"}, MethodPhone); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("phone issuance must not send mail")
	}
	if _, err := repo.FindLatest(ctx, Contact{Phone: "+15550001111"}); err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
}

func TestIssueValidation(t *testing.T) {
	svc, _ := newTestService(&stubMailer{})
	ctx := context.Background()

	if _, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, ""); !errors.Is(err, ErrMethodRequired) {
		t.Fatalf("expected ErrMethodRequired, got %v", err)
	}
	if _, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, "carrier-pigeon"); !errors.Is(err, ErrMethodRequired) {
		t.Fatalf("expected ErrMethodRequired for unknown method, got %v", err)
	}
	if _, err := svc.Issue(ctx, Contact{Phone: "+123"}, MethodEmail); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("expected ErrContactRequired, got %v", err)
	}
}

func TestIssueMailFailureKeepsRecord(t *testing.T) {
	mailer := &stubMailer{err: errors.New("relay down")}
	svc, repo := newTestService(mailer)
	ctx := context.Background()

	if _, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, MethodEmail); !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}

	// Issuance and delivery are not atomic: the record survives the failure.
	if _, err := repo.FindLatest(ctx, Contact{Email: "a@b.com"}); err != nil {
		t.Fatalf("expected record persisted despite delivery failure: %v", err)
	}
}

func TestVerifyWrongCodeIsRetriable(t *testing.T) {
	svc, repo := newTestService(&stubMailer{})
	ctx := context.Background()

	record, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, MethodEmail)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wrong := "000000"
	if wrong == record.Code {
		wrong = "000001"
	}
	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	// The record stays intact, so a retry with the right code succeeds.
	if _, err := repo.FindLatest(ctx, Contact{Email: "a@b.com"}); err != nil {
		t.Fatalf("record should survive an invalid attempt: %v", err)
	}
	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, record.Code); err != nil {
		t.Fatalf("retry with correct code: %v", err)
	}
}

func TestVerifyConsumesExactlyOnce(t *testing.T) {
	svc, _ := newTestService(&stubMailer{})
	ctx := context.Background()

	record, err := svc.Issue(ctx, Contact{Email: "a@b.com"}, MethodEmail)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, record.Code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, record.Code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after consumption, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc, repo := newTestService(&stubMailer{})
	ctx := context.Background()

	expired := Otp{
		ID:        uuid.New().String(),
		Email:     "late@b.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Second),
		CreatedAt: time.Now().Add(-6 * time.Minute),
	}
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Verify(ctx, Contact{Email: "late@b.com"}, "123456"); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyLatestWins(t *testing.T) {
	svc, repo := newTestService(&stubMailer{})
	ctx := context.Background()

	older := Otp{ID: uuid.New().String(), Email: "a@b.com", Code: "111111",
		ExpiresAt: time.Now().Add(5 * time.Minute), CreatedAt: time.Now().Add(-time.Minute)}
	newer := Otp{ID: uuid.New().String(), Email: "a@b.com", Code: "222222",
		ExpiresAt: time.Now().Add(5 * time.Minute), CreatedAt: time.Now()}
	for _, record := range []Otp{older, newer} {
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, "111111"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("older code must not verify, got %v", err)
	}
	if err := svc.Verify(ctx, Contact{Email: "a@b.com"}, "222222"); err != nil {
		t.Fatalf("latest code should verify: %v", err)
	}
}

func TestVerifyRequiresContact(t *testing.T) {
	svc, _ := newTestService(&stubMailer{})
	if err := svc.Verify(context.Background(), Contact{}, "123456"); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("expected ErrContactRequired, got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	svc, repo := newTestService(&stubMailer{})
	ctx := context.Background()

	live := Otp{ID: uuid.New().String(), Email: "live@b.com", Code: "111111",
		ExpiresAt: time.Now().Add(5 * time.Minute), CreatedAt: time.Now()}
	dead := Otp{ID: uuid.New().String(), Email: "dead@b.com", Code: "222222",
		ExpiresAt: time.Now().Add(-time.Minute), CreatedAt: time.Now().Add(-10 * time.Minute)}
	for _, record := range []Otp{live, dead} {
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	removed, err := svc.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 purged record, got %d", removed)
	}
	if _, err := repo.FindLatest(ctx, Contact{Email: "live@b.com"}); err != nil {
		t.Fatalf("live record should survive purge: %v", err)
	}
	if _, err := repo.FindLatest(ctx, Contact{Email: "dead@b.com"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired record gone, got %v", err)
	}
}
