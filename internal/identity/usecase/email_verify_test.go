package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

func TestEmailVerifyActivatesAccount(t *testing.T) {
	fx := newFixture(t)
	fx.jwt.claims = jwt.Claims{UserID: 9, UserEmail: "jo@example.com"}

	if err := fx.uc.EmailVerify(context.Background(), EmailVerifyInput{VerifyToken: "verify_email-token-9"}); err != nil {
		t.Fatalf("email verify: %v", err)
	}

	if len(fx.db.statusMoves) != 1 || fx.db.statusMoves[0] != 9 {
		t.Fatalf("expected status update for user 9, got %v", fx.db.statusMoves)
	}
}

func TestEmailVerifyAlreadyActiveIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	fx.jwt.claims = jwt.Claims{UserID: 9, UserEmail: "jo@example.com"}
	fx.db.updateStatusResult = false

	if err := fx.uc.EmailVerify(context.Background(), EmailVerifyInput{VerifyToken: "verify_email-token-9"}); err != nil {
		t.Fatalf("verifying an already-active account must succeed: %v", err)
	}
}

func TestEmailVerifyRejectsWrongPurposeToken(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.EmailVerify(context.Background(), EmailVerifyInput{VerifyToken: "access-token-9"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestEmailVerifySendMailsLink(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusUnverified})

	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, UserEmail: "jo@example.com"})
	if err := fx.uc.EmailVerifySend(ctx); err != nil {
		t.Fatalf("email verify send: %v", err)
	}

	if len(fx.mailer.verifications) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(fx.mailer.verifications))
	}
	if fx.mailer.verifications[0].VerifyToken != "verify_email-token-9" {
		t.Fatalf("unexpected token %q", fx.mailer.verifications[0].VerifyToken)
	}
}

func TestEmailVerifySendRequiresAuth(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.EmailVerifySend(context.Background())
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestEmailVerifySendAlreadyVerified(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})

	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, UserEmail: "jo@example.com"})
	err := fx.uc.EmailVerifySend(ctx)
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestEmailVerifySendDeliveryFailure(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusUnverified})
	fx.mailer.sendVerifyErr = errBoom

	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, UserEmail: "jo@example.com"})
	err := fx.uc.EmailVerifySend(ctx)
	assertBusinessCode(t, err, goerror.CodeUnavailable)
}
