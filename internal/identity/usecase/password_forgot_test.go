package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
)

func TestPasswordForgotSendsCodeAndResetToken(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})

	if err := fx.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "jo@example.com"}); err != nil {
		t.Fatalf("password forgot: %v", err)
	}

	if len(fx.db.otpCodes) != 1 || fx.db.otpCodes[0].Purpose != entity.OtpPurposeForgotPassword {
		t.Fatalf("expected one forgot-password code, got %+v", fx.db.otpCodes)
	}

	if len(fx.mailer.passwordResets) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(fx.mailer.passwordResets))
	}
	mail := fx.mailer.passwordResets[0]
	if mail.Code != "1234" {
		t.Fatalf("unexpected code %q", mail.Code)
	}
	if mail.ResetToken != "reset_password-token-9" {
		t.Fatalf("unexpected reset token %q", mail.ResetToken)
	}
}

func TestPasswordForgotUnknownEmail(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "jo@example.com"})
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestPasswordForgotDeliveryFailure(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.mailer.sendResetErr = errBoom

	err := fx.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "jo@example.com"})
	assertBusinessCode(t, err, goerror.CodeUnavailable)

	if len(fx.db.otpCodes) != 1 {
		t.Fatal("persisted code must survive delivery failure")
	}
}
