package entity

import "errors"

var (
	ErrUserStatusUnknown = errors.New("identity: user status is unknown")
	ErrOtpPurposeUnknown = errors.New("identity: otp purpose is unknown")
)

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified mean user exists but has not verified their email.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive mean user is verified and allowed to use the app.
	UserStatusActive UserStatus = 2

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 3

	// UserStatusInactive mean user is not currently active (e.g., deactivated, closed).
	UserStatusInactive UserStatus = 4
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	case UserStatusUnverified:
		return "Unverified"
	default:
		return "Unknown"
	}
}

func (us UserStatus) IsUnknown() bool {
	switch us {
	case UserStatusUnverified, UserStatusActive, UserStatusBanned, UserStatusInactive:
		return false
	default:
		return true
	}
}

// OtpPurpose is the flow that created a one-time code. The set is closed:
// resolution switches over it exhaustively and rejects anything else.
type OtpPurpose int16

const (
	OtpPurposeUnknown OtpPurpose = 0

	// OtpPurposeSignUp codes carry a pending identity; consuming one creates the account.
	OtpPurposeSignUp OtpPurpose = 1

	// OtpPurposeForgotPassword codes authenticate an existing account by email.
	OtpPurposeForgotPassword OtpPurpose = 2
)

func (op OtpPurpose) String() string {
	switch op {
	case OtpPurposeSignUp:
		return "sign-up"
	case OtpPurposeForgotPassword:
		return "forgot-password"
	default:
		return "unknown"
	}
}

// OtpResolutionKind tags the outcome of consuming a one-time code.
type OtpResolutionKind int16

const (
	OtpResolutionUnknown        OtpResolutionKind = 0
	OtpResolutionCreateIdentity OtpResolutionKind = 1
	OtpResolutionFetchIdentity  OtpResolutionKind = 2
)
