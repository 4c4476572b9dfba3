package entity

import (
	"time"

	"github.com/shandysiswandi/goauthless/internal/pkg/valueobject"
)

type User struct {
	ID          int64
	Email       string
	FullName    string
	PhoneNumber string
	Status      UserStatus
	UpdatedAt   time.Time
}

type UserCredential struct {
	UserID    int64
	Password  string // hashed
	UpdatedAt time.Time
}

// PendingIdentity is the profile captured at registration time and carried
// inside a sign-up code until the code is consumed.
type PendingIdentity struct {
	FullName    string
	PhoneNumber string
}

// OtpCode is a pending one-time code. Rows are append-only: consumption is
// deletion, never mutation, and every row for an email is deleted together
// once any one of them is consumed.
type OtpCode struct {
	ID       int64
	Email    string
	Code     string
	Purpose  OtpPurpose
	IssuedAt time.Time
	Metadata valueobject.JSONMap
}

// PendingIdentity extracts the profile embedded in a sign-up code's metadata.
func (o OtpCode) PendingIdentity() PendingIdentity {
	return PendingIdentity{
		FullName:    o.Metadata.GetString("full_name"),
		PhoneNumber: o.Metadata.GetString("phone_number"),
	}
}

// Resolve maps a consumed code onto the action its purpose allows. The purpose
// set is closed; an unrecognized value is an error, not a fallthrough.
func (o OtpCode) Resolve() (OtpResolution, error) {
	switch o.Purpose {
	case OtpPurposeSignUp:
		return OtpResolution{
			Kind:    OtpResolutionCreateIdentity,
			Email:   o.Email,
			Pending: o.PendingIdentity(),
		}, nil

	case OtpPurposeForgotPassword:
		return OtpResolution{
			Kind:  OtpResolutionFetchIdentity,
			Email: o.Email,
		}, nil

	default:
		return OtpResolution{}, ErrOtpPurposeUnknown
	}
}

// OtpResolution is the outcome of consuming a code: create a new identity from
// the embedded profile, or fetch an existing one by email.
type OtpResolution struct {
	Kind    OtpResolutionKind
	Email   string
	Pending PendingIdentity
}

type NewUser struct {
	ID          int64
	Email       string
	FullName    string
	PhoneNumber string
	Status      UserStatus
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
}

type UserRefreshToken struct {
	UserID                   int64
	UserEmail                string
	UserStatus               UserStatus
	RefreshID                int64
	RefreshToken             string
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}
