package inbound

type RequestLoginRequest struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type OtpSentResponse struct{}

func (OtpSentResponse) Message() string {
	return "We have sent a verification code to your email."
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Status      string `json:"status"`
}

type VerifyOtpResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "We have sent a verification code and a reset link to your email."
}

type PasswordResetRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Your password has been reset. Please log in again."
}

type EmailVerifySendRequest struct{}

type EmailVerifySendResponse struct{}

func (EmailVerifySendResponse) Message() string {
	return "We have sent a verification link to your email."
}

type EmailVerifyRequest struct {
	VerifyToken string `json:"verify_token"`
}

type EmailVerifyResponse struct{}

func (EmailVerifyResponse) Message() string {
	return "Your email address has been verified."
}
