package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot emails both a one-time code and a reset link carrying a
// reset-password token; either path lets the user recover the account.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unregistered email", "email", in.Email)
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate one-time code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.CreateOtpCode(ctx, entity.OtpCode{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		Code:     code,
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	resetToken, err := s.jwt.Generate(user.ID, user.Email, jwt.PurposeResetPassword,
		s.cfg.GetMinute("modules.identity.reset_token_ttl_minutes"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate reset token", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMailer.SendPasswordReset(ctx, PasswordResetEmail{
		Email:      user.Email,
		Code:       code,
		ResetToken: resetToken,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send password reset email", "user_id", user.ID, "error", err)
		return goerror.NewBusiness("password reset email could not be delivered", goerror.CodeUnavailable)
	}

	return nil
}
