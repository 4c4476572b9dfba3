package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
)

func TestRegisterIssuesSignUpCode(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.Register(context.Background(), RegisterInput{
		Email:       "Jo@Example.com",
		FullName:    " Jordan Example ",
		PhoneNumber: "+15550001111",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(fx.db.otpCodes) != 1 {
		t.Fatalf("expected one persisted code, got %d", len(fx.db.otpCodes))
	}
	rec := fx.db.otpCodes[0]
	if rec.Email != "jo@example.com" {
		t.Fatalf("email not normalized: %q", rec.Email)
	}
	if rec.Purpose != entity.OtpPurposeSignUp {
		t.Fatalf("expected sign-up purpose, got %v", rec.Purpose)
	}
	if rec.Metadata.GetString("full_name") != "Jordan Example" {
		t.Fatalf("full name not carried in metadata: %v", rec.Metadata)
	}
	if rec.Metadata.GetString("phone_number") != "+15550001111" {
		t.Fatalf("phone number not carried in metadata: %v", rec.Metadata)
	}

	// No account yet; it is created when the code is consumed.
	if len(fx.db.users) != 0 {
		t.Fatal("registration must not create the account")
	}
}

func TestRegisterExistingEmail(t *testing.T) {
	fx := newFixture(t)
	fx.db.addUser(entity.User{ID: 9, Email: "jo@example.com", Status: entity.UserStatusActive})

	err := fx.uc.Register(context.Background(), RegisterInput{
		Email:       "jo@example.com",
		FullName:    "Jordan Example",
		PhoneNumber: "+15550001111",
	})
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestRegisterDeliveryFailure(t *testing.T) {
	fx := newFixture(t)
	fx.mailer.sendOtpErr = errBoom

	err := fx.uc.Register(context.Background(), RegisterInput{
		Email:       "jo@example.com",
		FullName:    "Jordan Example",
		PhoneNumber: "+15550001111",
	})
	assertBusinessCode(t, err, goerror.CodeUnavailable)
}

func TestRegisterInvalidInput(t *testing.T) {
	fx := newFixture(t)

	cases := []RegisterInput{
		{Email: "jo@example.com", FullName: "Jordan Example", PhoneNumber: "5550001111"},
		{Email: "jo@example.com", FullName: "Jo", PhoneNumber: "+15550001111"},
		{Email: "jo@example.com", FullName: "Jordan 3xample", PhoneNumber: "+15550001111"},
		{Email: "not-an-email", FullName: "Jordan Example", PhoneNumber: "+15550001111"},
	}
	for _, in := range cases {
		if err := fx.uc.Register(context.Background(), in); err == nil {
			t.Fatalf("input %+v should fail validation", in)
		}
	}
}
