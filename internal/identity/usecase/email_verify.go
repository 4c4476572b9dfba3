package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

type EmailVerifyInput struct {
	VerifyToken string `validate:"required"`
}

// EmailVerify consumes a verify-email token and activates the account.
// Verifying an already-active account succeeds without changing anything.
func (s *Usecase) EmailVerify(ctx context.Context, in EmailVerifyInput) error {
	ctx, span := s.startSpan(ctx, "EmailVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.jwt.Verify(in.VerifyToken, jwt.PurposeVerifyEmail)
	if err != nil {
		slog.WarnContext(ctx, "presented verify email token is invalid")
		return goerror.NewBusiness("invalid or expired token", goerror.CodeUnauthorized)
	}

	updated, err := s.repoDB.UpdateUserStatus(ctx, clm.UserID,
		entity.UserStatusUnverified, entity.UserStatusActive)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update user status", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if !updated {
		slog.InfoContext(ctx, "user already verified", "user_id", clm.UserID)
	}

	return nil
}
