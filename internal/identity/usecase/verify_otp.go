package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/lock"
)

type VerifyOtpInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

type VerifyOtpOutput struct {
	User         entity.User
	AccessToken  string
	RefreshToken string
}

// VerifyOtp consumes a one-time code and exchanges it for a token pair.
//
// Verification for the same email is serialized behind a short redis lock so
// two racing attempts cannot both consume a code; the loser finds the records
// already deleted.
func (s *Usecase) VerifyOtp(ctx context.Context, in VerifyOtpInput) (*VerifyOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOtp")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	release, err := s.acquireVerifyLock(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire verification lock", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			slog.WarnContext(ctx, "failed to release verification lock", "email", in.Email, "error", err)
		}
	}()

	rec, err := s.repoDB.GetActiveOtpCode(ctx, in.Email, in.Code)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "one-time code not found or already used", "email", in.Email)
		return nil, goerror.NewBusiness("code not found or already used", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp code", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Expired records stay in place; the sweeper or a later successful
	// verification for this email cleans them up.
	if s.clock.Now().Sub(rec.IssuedAt) > s.otpTTL() {
		slog.WarnContext(ctx, "one-time code is expired", "email", in.Email)
		return nil, goerror.NewBusiness("code has expired, please request a new one", goerror.CodeUnauthorized)
	}

	// Consumption wipes every pending code for this email, matched or not.
	// Only one outstanding authentication attempt per email is meaningful.
	if _, err := s.repoDB.DeleteOtpCodesByEmail(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete otp codes", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	resolution, err := rec.Resolve()
	if err != nil {
		slog.ErrorContext(ctx, "otp code has unrecognized purpose", "email", in.Email, "purpose", rec.Purpose)
		return nil, goerror.NewServer(err)
	}

	user, newUser, err := s.resolveIdentity(ctx, resolution)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	// Published outside the request lifetime; a broker hiccup never fails a
	// verification that already succeeded.
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMsg.PublishIdentityVerified(ctx, IdentityVerifiedEvent{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			NewUser:  newUser,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish identity verified", "user_id", user.ID, "error", err)
			return err
		}

		return nil
	})

	return &VerifyOtpOutput{
		User:         *user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *Usecase) acquireVerifyLock(ctx context.Context, email string) (func(context.Context) error, error) {
	ttl := s.cfg.GetSecond("modules.identity.verify_lock_ttl_seconds")

	var release func(context.Context) error
	backoff := retry.WithMaxRetries(5, retry.NewConstant(100*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		rel, err := s.locker.Acquire(ctx, "otp_verify:"+email, ttl)
		if errors.Is(err, lock.ErrNotAcquired) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		release = rel
		return nil
	})
	if err != nil {
		return nil, err
	}

	return release, nil
}

func (s *Usecase) resolveIdentity(ctx context.Context, res entity.OtpResolution) (*entity.User, bool, error) {
	switch res.Kind {
	case entity.OtpResolutionCreateIdentity:
		newID := s.uid.Generate()
		err := s.repoDB.CreateUser(ctx, entity.NewUser{
			ID:          newID,
			Email:       res.Email,
			FullName:    res.Pending.FullName,
			PhoneNumber: res.Pending.PhoneNumber,
			Status:      entity.UserStatusUnverified,
		})
		// The unique email constraint closes the double-create race between
		// two verifications resolving the same sign-up code.
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "identity already exists on sign-up resolution", "email", res.Email)
			return nil, false, goerror.NewBusiness("email already registered", goerror.CodeConflict)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo create user", "email", res.Email, "error", err)
			return nil, false, goerror.NewServer(err)
		}

		user, err := s.repoDB.GetUserByID(ctx, newID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", newID, "error", err)
			return nil, false, goerror.NewServer(err)
		}

		return user, true, nil

	case entity.OtpResolutionFetchIdentity:
		user, err := s.repoDB.GetUserByEmail(ctx, res.Email)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "identity not found on fetch resolution", "email", res.Email)
			return nil, false, goerror.NewBusiness("account not found", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by email", "email", res.Email, "error", err)
			return nil, false, goerror.NewServer(err)
		}

		return user, false, nil

	default:
		return nil, false, goerror.NewServer(entity.ErrOtpPurposeUnknown)
	}
}
