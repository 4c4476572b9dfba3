package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/pkg/mail"
)

type ConsumeIdentityVerifiedInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
	NewUser  bool
}

// ConsumeIdentityVerified sends the welcome email for freshly created
// accounts. The email is non-critical: validation failures are dropped, send
// failures are returned so the broker can redeliver.
func (s *Usecase) ConsumeIdentityVerified(ctx context.Context, in ConsumeIdentityVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeIdentityVerified")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "validation failed", "error", err)
		return nil
	}

	if !in.NewUser {
		return nil
	}

	appName := s.cfg.GetString("app.name")
	if err := s.repoMail.Send(ctx, mail.Message{
		To:      []string{in.Email},
		Subject: fmt.Sprintf("Welcome to %s", appName),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. "+
				"Next time you log in, we will send a fresh code to this address.\n\n"+
				"The %s team",
			in.FullName, appName),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
