package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

// EmailVerifySend issues a verify-email token for the authenticated user and
// mails a verification link.
func (s *Usecase) EmailVerifySend(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "EmailVerifySend")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "authenticated user not found", "user_id", clm.UserID)
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if user.Status == entity.UserStatusActive {
		return goerror.NewBusiness("email already verified", goerror.CodeConflict)
	}

	verifyToken, err := s.jwt.Generate(user.ID, user.Email, jwt.PurposeVerifyEmail,
		s.cfg.GetMinute("modules.identity.verify_email_token_ttl_minutes"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verify email token", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMailer.SendEmailVerification(ctx, EmailVerificationEmail{
		Email:       user.Email,
		VerifyToken: verifyToken,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "user_id", user.ID, "error", err)
		return goerror.NewBusiness("verification email could not be delivered", goerror.CodeUnavailable)
	}

	return nil
}
