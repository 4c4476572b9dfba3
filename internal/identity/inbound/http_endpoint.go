package inbound

import (
	"strconv"

	"github.com/shandysiswandi/goauthless/internal/identity/usecase"
	"github.com/shandysiswandi/goauthless/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passwordless authentication flows.
type HTTPEndpoint struct {
	uc uc
}

// RequestLogin issues a one-time code to an existing account's email.
func (h *HTTPEndpoint) RequestLogin(r *router.Request) (any, error) {
	var req RequestLoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestLogin(r.Context(), usecase.RequestLoginInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return OtpSentResponse{}, nil
}

// Register issues a sign-up one-time code carrying the new profile.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	}); err != nil {
		return nil, err
	}

	return OtpSentResponse{}, nil
}

// VerifyOtp consumes a one-time code and returns the identity with a token pair.
func (h *HTTPEndpoint) VerifyOtp(r *router.Request) (any, error) {
	var req VerifyOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOtp(r.Context(), usecase.VerifyOtpInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOtpResponse{
		User: UserResponse{
			ID:          strconv.FormatInt(resp.User.ID, 10),
			Email:       resp.User.Email,
			FullName:    resp.User.FullName,
			PhoneNumber: resp.User.PhoneNumber,
			Status:      resp.User.Status.String(),
		},
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// RefreshToken exchanges a refresh token for a newly rotated pair.
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return nil, nil
}

// PasswordForgot emails a one-time code and a reset link.
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset consumes a reset token and sets a new credential.
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		ResetToken:  req.ResetToken,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// EmailVerifySend mails a verification link to the authenticated user.
func (h *HTTPEndpoint) EmailVerifySend(r *router.Request) (any, error) {
	if err := h.uc.EmailVerifySend(r.Context()); err != nil {
		return nil, err
	}

	return EmailVerifySendResponse{}, nil
}

// EmailVerify consumes a verify-email token and activates the account.
func (h *HTTPEndpoint) EmailVerify(r *router.Request) (any, error) {
	var req EmailVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.EmailVerify(r.Context(), usecase.EmailVerifyInput{VerifyToken: req.VerifyToken}); err != nil {
		return nil, err
	}

	return EmailVerifyResponse{}, nil
}
