package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

type LogoutInput struct {
	RefreshToken string `validate:"required"`
}

// Logout revokes the refresh token's persisted counterpart. It is idempotent:
// revoking an already-revoked or unknown token succeeds silently.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.jwt.Verify(in.RefreshToken, jwt.PurposeRefresh); err != nil {
		slog.WarnContext(ctx, "logout with unverifiable refresh token")
		return nil
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeRefreshToken(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke refresh token", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
