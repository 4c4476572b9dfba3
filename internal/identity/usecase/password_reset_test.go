package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

func TestPasswordResetUpdatesCredentialAndRevokesSessions(t *testing.T) {
	fx := newFixture(t)
	fx.jwt.claims = jwt.Claims{UserID: 9, UserEmail: "jo@example.com"}

	err := fx.uc.PasswordReset(context.Background(), PasswordResetInput{
		ResetToken:  "reset_password-token-9",
		NewPassword: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("password reset: %v", err)
	}

	if fx.db.credentials[9] != "hashed:correct horse battery" {
		t.Fatalf("credential not stored hashed, got %q", fx.db.credentials[9])
	}
	if len(fx.db.revokedAll) != 1 || fx.db.revokedAll[0] != 9 {
		t.Fatalf("reset must revoke every session, got %v", fx.db.revokedAll)
	}
}

func TestPasswordResetRejectsWrongPurposeToken(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.PasswordReset(context.Background(), PasswordResetInput{
		ResetToken:  "access-token-9",
		NewPassword: "correct horse battery",
	})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)

	if len(fx.db.credentials) != 0 {
		t.Fatal("no credential may change on a rejected token")
	}
}

func TestPasswordResetWeakPassword(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.PasswordReset(context.Background(), PasswordResetInput{
		ResetToken:  "reset_password-token-9",
		NewPassword: "short",
	})
	if err == nil {
		t.Fatal("expected validation error for short password")
	}
}
