package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

type PasswordResetInput struct {
	ResetToken  string `validate:"required"`
	NewPassword string `validate:"required,password"`
}

func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.jwt.Verify(in.ResetToken, jwt.PurposeResetPassword)
	if err != nil {
		slog.WarnContext(ctx, "presented reset token is invalid")
		return goerror.NewBusiness("invalid or expired token", goerror.CodeUnauthorized)
	}

	hashed, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserCredential(ctx, clm.UserID, string(hashed)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update user credential", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	// Existing sessions are not trusted after a reset.
	if err := s.repoDB.RevokeAllRefreshToken(ctx, clm.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke all refresh token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
