package entity

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/pkg/valueobject"
)

func TestOtpCodeResolveSignUp(t *testing.T) {
	code := OtpCode{
		Email:   "jo@example.com",
		Purpose: OtpPurposeSignUp,
		Metadata: valueobject.JSONMap{
			"full_name":    "Jordan Example",
			"phone_number": "+15550001111",
		},
	}

	res, err := code.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != OtpResolutionCreateIdentity {
		t.Fatalf("expected create resolution, got %v", res.Kind)
	}
	if res.Email != "jo@example.com" {
		t.Fatalf("unexpected email %q", res.Email)
	}
	if res.Pending.FullName != "Jordan Example" || res.Pending.PhoneNumber != "+15550001111" {
		t.Fatalf("unexpected pending identity %+v", res.Pending)
	}
}

func TestOtpCodeResolveForgotPassword(t *testing.T) {
	code := OtpCode{Email: "jo@example.com", Purpose: OtpPurposeForgotPassword}

	res, err := code.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != OtpResolutionFetchIdentity {
		t.Fatalf("expected fetch resolution, got %v", res.Kind)
	}
	if res.Pending != (PendingIdentity{}) {
		t.Fatalf("fetch resolution should carry no pending identity, got %+v", res.Pending)
	}
}

func TestOtpCodeResolveUnknownPurpose(t *testing.T) {
	for _, purpose := range []OtpPurpose{OtpPurposeUnknown, OtpPurpose(99)} {
		if _, err := (OtpCode{Purpose: purpose}).Resolve(); !errors.Is(err, ErrOtpPurposeUnknown) {
			t.Fatalf("purpose %v: expected ErrOtpPurposeUnknown, got %v", purpose, err)
		}
	}
}

func TestPendingIdentityMissingMetadata(t *testing.T) {
	got := OtpCode{Purpose: OtpPurposeSignUp}.PendingIdentity()
	if got != (PendingIdentity{}) {
		t.Fatalf("expected empty pending identity, got %+v", got)
	}
}

func TestUserStatusString(t *testing.T) {
	cases := map[UserStatus]string{
		UserStatusUnverified: "Unverified",
		UserStatusActive:     "Active",
		UserStatusBanned:     "Banned",
		UserStatusInactive:   "Inactive",
		UserStatusUnknown:    "Unknown",
		UserStatus(42):       "Unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("status %d: expected %q, got %q", status, want, got)
		}
	}
}

func TestUserStatusIsUnknown(t *testing.T) {
	if UserStatusActive.IsUnknown() || UserStatusBanned.IsUnknown() {
		t.Fatal("known statuses reported unknown")
	}
	if !UserStatusUnknown.IsUnknown() || !UserStatus(42).IsUnknown() {
		t.Fatal("unknown statuses reported known")
	}
}
