package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/valueobject"
)

type RegisterInput struct {
	Email       string `validate:"required,email"`
	FullName    string `validate:"required,min=5,max=100,alphaspace"`
	PhoneNumber string `validate:"required,e164"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return goerror.NewBusiness("email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate one-time code", "error", err)
		return goerror.NewServer(err)
	}

	// The account does not exist yet; the profile rides along inside the code
	// until verification creates the identity.
	if err := s.repoDB.CreateOtpCode(ctx, entity.OtpCode{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		Code:     code,
		Purpose:  entity.OtpPurposeSignUp,
		IssuedAt: s.clock.Now(),
		Metadata: valueobject.JSONMap{
			"full_name":    in.FullName,
			"phone_number": in.PhoneNumber,
		},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMailer.SendOtpCode(ctx, OtpCodeEmail{Email: in.Email, Code: code}); err != nil {
		slog.ErrorContext(ctx, "failed to send registration code email", "email", in.Email, "error", err)
		return goerror.NewBusiness("verification code could not be delivered", goerror.CodeUnavailable)
	}

	return nil
}
