package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/pkg/config"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/mail"
	"github.com/shandysiswandi/goauthless/internal/pkg/validator"
)

type fakeMail struct {
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestUsecase(t *testing.T, m *fakeMail) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: Goauthless\n"))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	return New(Dependency{
		RepoMail:   m,
		Config:     cfg,
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
}

func TestConsumeIdentityVerifiedSendsWelcome(t *testing.T) {
	m := &fakeMail{}
	uc := newTestUsecase(t, m)

	err := uc.ConsumeIdentityVerified(context.Background(), ConsumeIdentityVerifiedInput{
		UserID:   9,
		Email:    "jo@example.com",
		FullName: "Jordan Example",
		NewUser:  true,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(m.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(m.sent))
	}
	msg := m.sent[0]
	if msg.To[0] != "jo@example.com" {
		t.Fatalf("unexpected recipient %v", msg.To)
	}
	if !strings.Contains(msg.Subject, "Goauthless") {
		t.Fatalf("subject should carry the app name, got %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "Jordan Example") {
		t.Fatalf("body should greet the user, got %q", msg.TextBody)
	}
}

func TestConsumeIdentityVerifiedSkipsReturningUsers(t *testing.T) {
	m := &fakeMail{}
	uc := newTestUsecase(t, m)

	err := uc.ConsumeIdentityVerified(context.Background(), ConsumeIdentityVerifiedInput{
		UserID:   9,
		Email:    "jo@example.com",
		FullName: "Jordan Example",
		NewUser:  false,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(m.sent) != 0 {
		t.Fatal("returning users get no welcome mail")
	}
}

func TestConsumeIdentityVerifiedDropsInvalidPayload(t *testing.T) {
	m := &fakeMail{}
	uc := newTestUsecase(t, m)

	err := uc.ConsumeIdentityVerified(context.Background(), ConsumeIdentityVerifiedInput{
		Email:   "not-an-email",
		NewUser: true,
	})
	if err != nil {
		t.Fatalf("invalid payloads are dropped, not returned: %v", err)
	}
	if len(m.sent) != 0 {
		t.Fatal("invalid payloads must not produce mail")
	}
}

func TestConsumeIdentityVerifiedReturnsSendFailure(t *testing.T) {
	m := &fakeMail{err: errors.New("smtp down")}
	uc := newTestUsecase(t, m)

	err := uc.ConsumeIdentityVerified(context.Background(), ConsumeIdentityVerifiedInput{
		UserID:   9,
		Email:    "jo@example.com",
		FullName: "Jordan Example",
		NewUser:  true,
	})
	if err == nil {
		t.Fatal("send failures must be returned for redelivery")
	}
}
