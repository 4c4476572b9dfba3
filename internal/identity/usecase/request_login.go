package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
)

type RequestLoginInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) RequestLogin(ctx context.Context, in RequestLoginInput) error {
	ctx, span := s.startSpan(ctx, "RequestLogin")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login requested for unregistered email", "email", in.Email)
		return goerror.NewBusiness("account not found, please register first", goerror.CodeNotFound)
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

	// New codes never replace still-valid older ones; all of them die together
	// on the next successful verification.
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

	// The code is already persisted; a delivery failure leaves it valid until
	// its TTL elapses, and the caller is told delivery failed.
	if err := s.repoMailer.SendOtpCode(ctx, OtpCodeEmail{Email: in.Email, Code: code}); err != nil {
		slog.ErrorContext(ctx, "failed to send login code email", "email", in.Email, "error", err)
		return goerror.NewBusiness("verification code could not be delivered", goerror.CodeUnavailable)
	}

	return nil
}
