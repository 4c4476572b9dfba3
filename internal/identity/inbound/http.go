package inbound

import (
	"context"

	"github.com/shandysiswandi/goauthless/internal/identity/usecase"
	"github.com/shandysiswandi/goauthless/internal/pkg/router"
)

type uc interface {
	RequestLogin(ctx context.Context, in usecase.RequestLoginInput) error
	Register(ctx context.Context, in usecase.RegisterInput) error
	VerifyOtp(ctx context.Context, in usecase.VerifyOtpInput) (*usecase.VerifyOtpOutput, error)

	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	EmailVerifySend(ctx context.Context) error
	EmailVerify(ctx context.Context, in usecase.EmailVerifyInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Passwordless authentication
	r.POST("/api/v1/identity/login", end.RequestLogin)
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/otp/verify", end.VerifyOtp)

	// Token lifecycle
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout)

	// Password management
	r.POST("/api/v1/identity/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/identity/password/reset", end.PasswordReset)

	// Email verification
	r.POST("/api/v1/identity/email/verify/send", end.EmailVerifySend) // need authenticated
	r.POST("/api/v1/identity/email/verify", end.EmailVerify)
}
