package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/clock"
	"github.com/shandysiswandi/goauthless/internal/pkg/config"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthless/internal/pkg/hash"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
	"github.com/shandysiswandi/goauthless/internal/pkg/lock"
	"github.com/shandysiswandi/goauthless/internal/pkg/otp"
	"github.com/shandysiswandi/goauthless/internal/pkg/uid"
	"github.com/shandysiswandi/goauthless/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

type IdentityVerifiedEvent struct {
	UserID   int64
	Email    string
	FullName string
	NewUser  bool
}

type OtpCodeEmail struct {
	Email string
	Code  string
}

type PasswordResetEmail struct {
	Email      string
	Code       string
	ResetToken string
}

type EmailVerificationEmail struct {
	Email       string
	VerifyToken string
}

type repoMessaging interface {
	PublishIdentityVerified(ctx context.Context, msg IdentityVerifiedEvent) error
}

type repoMailer interface {
	SendOtpCode(ctx context.Context, msg OtpCodeEmail) error
	SendPasswordReset(ctx context.Context, msg PasswordResetEmail) error
	SendEmailVerification(ctx context.Context, msg EmailVerificationEmail) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetActiveOtpCode(ctx context.Context, email, code string) (*entity.OtpCode, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)

	CreateOtpCode(ctx context.Context, in entity.OtpCode) error
	CreateUser(ctx context.Context, in entity.NewUser) error
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error

	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	UpdateUserStatus(ctx context.Context, id int64, oldStatus, newStatus entity.UserStatus) (bool, error)
	UpdateUserCredential(ctx context.Context, userID int64, hash string) error

	DeleteOtpCodesByEmail(ctx context.Context, email string) (int64, error)
	ListExpiredOtpCodeIDs(ctx context.Context, before time.Time) ([]int64, error)
	DeleteOtpCodesByIDs(ctx context.Context, ids []int64) (int64, error)
}

type Usecase struct {
	repoDB     repoDB
	repoMailer repoMailer
	repoMsg    repoMessaging
	validator  validator.Validator
	cfg        config.Config
	hmac       hash.Hash
	password   hash.Hash
	uid        uid.NumberID
	code       otp.Generator
	locker     lock.Locker
	clock      clock.Clocker
	jwt        jwt.JWT
	ins        instrument.Instrumentation
	goroutine  *goroutine.Manager
	sweeping   atomic.Bool
}

type Dependency struct {
	RepoDB     repoDB
	RepoMailer repoMailer
	RepoMsg    repoMessaging
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Password   hash.Hash
	UID        uid.NumberID
	Code       otp.Generator
	Locker     lock.Locker
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:     dep.RepoDB,
		repoMailer: dep.RepoMailer,
		repoMsg:    dep.RepoMsg,
		validator:  dep.Validator,
		cfg:        dep.Config,
		hmac:       dep.HMAC,
		password:   dep.Password,
		uid:        dep.UID,
		code:       dep.Code,
		locker:     dep.Locker,
		clock:      dep.Clock,
		jwt:        dep.JWT,
		ins:        dep.Instrument,
		goroutine:  dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	return s.cfg.GetMinute("modules.identity.otp_ttl_minutes")
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status {
	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	case entity.UserStatusActive, entity.UserStatusUnverified:
		return nil

	default:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)
	}
}

// issueTokenPair generates an access/refresh pair and persists the refresh
// token's revocable counterpart (hashed, never the raw token).
func (s *Usecase) issueTokenPair(ctx context.Context, userID int64, email string) (access, refresh string, err error) {
	access, err = s.jwt.Generate(userID, email, jwt.PurposeAccess,
		s.cfg.GetMinute("modules.identity.access_token_ttl_minutes"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refreshTTL := s.cfg.GetDay("modules.identity.refresh_token_ttl_days")
	refresh, err = s.jwt.Generate(userID, email, jwt.PurposeRefresh, refreshTTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refreshHash, err := s.hmac.Hash(refresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refreshHash),
		ExpiresAt: s.clock.Now().Add(refreshTTL),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return access, refresh, nil
}
