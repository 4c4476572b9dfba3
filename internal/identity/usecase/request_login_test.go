package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
)

func TestRequestLoginIssuesCode(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})

	if err := fx.uc.RequestLogin(context.Background(), RequestLoginInput{Email: "JO@Example.com "}); err != nil {
		t.Fatalf("request login: %v", err)
	}

	if len(fx.db.otpCodes) != 1 {
		t.Fatalf("expected one persisted code, got %d", len(fx.db.otpCodes))
	}
	rec := fx.db.otpCodes[0]
	if rec.Email != "jo@example.com" {
		t.Fatalf("email not normalized: %q", rec.Email)
	}
	if rec.Purpose != entity.OtpPurposeForgotPassword {
		t.Fatalf("login codes authenticate existing accounts, got purpose %v", rec.Purpose)
	}
	if rec.IssuedAt != fx.now {
		t.Fatalf("unexpected issued at %v", rec.IssuedAt)
	}

	if len(fx.mailer.otpCodes) != 1 || fx.mailer.otpCodes[0].Code != "1234" {
		t.Fatalf("unexpected mails %+v", fx.mailer.otpCodes)
	}
}

func TestRequestLoginUnknownEmail(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.RequestLogin(context.Background(), RequestLoginInput{Email: "jo@example.com"})
	assertBusinessCode(t, err, goerror.CodeNotFound)

	if len(fx.db.otpCodes) != 0 {
		t.Fatal("no code should be persisted for unknown emails")
	}
}

func TestRequestLoginDeliveryFailureKeepsCode(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.mailer.sendOtpErr = errBoom

	err := fx.uc.RequestLogin(context.Background(), RequestLoginInput{Email: "jo@example.com"})
	assertBusinessCode(t, err, goerror.CodeUnavailable)

	// The code was persisted before delivery was attempted; it stays valid
	// until its TTL elapses.
	if len(fx.db.otpCodes) != 1 {
		t.Fatalf("expected persisted code to survive delivery failure, got %d", len(fx.db.otpCodes))
	}
}

func TestRequestLoginDeactivatedAccount(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusInactive})

	err := fx.uc.RequestLogin(context.Background(), RequestLoginInput{Email: "jo@example.com"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestRequestLoginNewCodesAccumulate(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})

	for range 3 {
		if err := fx.uc.RequestLogin(context.Background(), RequestLoginInput{Email: "jo@example.com"}); err != nil {
			t.Fatalf("request login: %v", err)
		}
	}

	if len(fx.db.otpCodes) != 3 {
		t.Fatalf("codes never replace each other, expected 3 rows, got %d", len(fx.db.otpCodes))
	}
}
