package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/valueobject"
)

func TestVerifyOtpSignUpCreatesIdentity(t *testing.T) {
	fx := newFixture(t)
	fx.db.otpCodes = []entity.OtpCode{{
		ID:       1,
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeSignUp,
		IssuedAt: fx.now.Add(-time.Minute),
		Metadata: valueobject.JSONMap{
			"full_name":    "Jordan Example",
			"phone_number": "+15550001111",
		},
	}}

	out, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	if out.User.Email != "jo@example.com" {
		t.Fatalf("unexpected user %+v", out.User)
	}
	if out.User.FullName != "Jordan Example" || out.User.PhoneNumber != "+15550001111" {
		t.Fatalf("pending identity not applied: %+v", out.User)
	}
	if out.User.Status != entity.UserStatusUnverified {
		t.Fatalf("new user should start unverified, got %v", out.User.Status)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	if len(fx.db.otpCodes) != 0 {
		t.Fatalf("codes should be consumed, %d remain", len(fx.db.otpCodes))
	}
	if len(fx.db.refreshRows) != 1 {
		t.Fatalf("expected one persisted refresh row, got %d", len(fx.db.refreshRows))
	}
	if fx.db.refreshRows[0].Token != "hashed:"+out.RefreshToken {
		t.Fatal("persisted refresh token must be the hash, not the raw token")
	}

	if err := fx.gr.Wait(); err != nil {
		t.Fatalf("goroutines: %v", err)
	}
	events := fx.msg.published()
	if len(events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events))
	}
	if !events[0].NewUser {
		t.Fatal("sign-up verification should publish NewUser=true")
	}
}

func TestVerifyOtpForgotPasswordFetchesIdentity(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", FullName: "Jordan Example", Status: entity.UserStatusActive})
	fx.db.otpCodes = []entity.OtpCode{{
		ID:       1,
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: fx.now.Add(-time.Minute),
	}}

	out, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if out.User.ID != 9 {
		t.Fatalf("expected existing user 9, got %d", out.User.ID)
	}

	if err := fx.gr.Wait(); err != nil {
		t.Fatalf("goroutines: %v", err)
	}
	events := fx.msg.published()
	if len(events) != 1 || events[0].NewUser {
		t.Fatalf("expected one NewUser=false event, got %+v", events)
	}
}

func TestVerifyOtpUnknownCode(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestVerifyOtpSecondAttemptFindsNothing(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.db.otpCodes = []entity.OtpCode{{
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: fx.now.Add(-time.Minute),
	}}

	in := VerifyOtpInput{Email: "jo@example.com", Code: "1234"}
	if _, err := fx.uc.VerifyOtp(context.Background(), in); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	_, err := fx.uc.VerifyOtp(context.Background(), in)
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestVerifyOtpExpiredCodeStaysInPlace(t *testing.T) {
	fx := newFixture(t)
	fx.db.otpCodes = []entity.OtpCode{{
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: fx.now.Add(-11 * time.Minute),
	}}

	_, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)

	if len(fx.db.otpCodes) != 1 {
		t.Fatal("expired code must not be deleted by a failed verification")
	}
}

func TestVerifyOtpConsumesEveryCodeForEmail(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.db.otpCodes = []entity.OtpCode{
		{Email: "jo@example.com", Code: "1111", Purpose: entity.OtpPurposeForgotPassword, IssuedAt: fx.now.Add(-8 * time.Minute)},
		{Email: "jo@example.com", Code: "1234", Purpose: entity.OtpPurposeForgotPassword, IssuedAt: fx.now.Add(-time.Minute)},
		{Email: "other@example.com", Code: "2222", Purpose: entity.OtpPurposeForgotPassword, IssuedAt: fx.now.Add(-time.Minute)},
	}

	if _, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"}); err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	if len(fx.db.otpCodes) != 1 || fx.db.otpCodes[0].Email != "other@example.com" {
		t.Fatalf("only the other email's code should remain, got %+v", fx.db.otpCodes)
	}
}

func TestVerifyOtpBannedUser(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusBanned})
	fx.db.otpCodes = []entity.OtpCode{{
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: fx.now.Add(-time.Minute),
	}}

	_, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestVerifyOtpSignUpRace(t *testing.T) {
	fx := newFixture(t)
	// Another verification created the account between code issuance and now.
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.db.otpCodes = []entity.OtpCode{{
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeSignUp,
		IssuedAt: fx.now.Add(-time.Minute),
		Metadata: valueobject.JSONMap{"full_name": "Jordan Example", "phone_number": "+15550001111"},
	}}

	_, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestVerifyOtpInvalidInput(t *testing.T) {
	fx := newFixture(t)

	cases := []VerifyOtpInput{
		{Email: "", Code: "1234"},
		{Email: "not-an-email", Code: "1234"},
		{Email: "jo@example.com", Code: ""},
		{Email: "jo@example.com", Code: "12a4"},
		{Email: "jo@example.com", Code: "12345"},
	}
	for _, in := range cases {
		_, err := fx.uc.VerifyOtp(context.Background(), in)
		if err == nil {
			t.Fatalf("input %+v should fail validation", in)
		}
	}

	if len(fx.locker.acquired) != 0 {
		t.Fatal("validation failures must not touch the lock")
	}
}

func TestVerifyOtpLockIsReleased(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})
	fx.db.otpCodes = []entity.OtpCode{{
		Email:    "jo@example.com",
		Code:     "1234",
		Purpose:  entity.OtpPurposeForgotPassword,
		IssuedAt: fx.now.Add(-time.Minute),
	}}

	if _, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"}); err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	if len(fx.locker.acquired) != 1 || fx.locker.acquired[0] != "otp_verify:jo@example.com" {
		t.Fatalf("unexpected lock keys %v", fx.locker.acquired)
	}
	if fx.locker.released != 1 {
		t.Fatalf("expected one release, got %d", fx.locker.released)
	}
}
