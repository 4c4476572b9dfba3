package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type testClock struct{}

func (testClock) Now() time.Time { return time.Now() }

type testUUID struct{}

func (testUUID) Generate() string { return uuid.NewString() }

var testSecret = []byte(strings.Repeat("s", 64))

func newTestJWT(t *testing.T) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    testSecret,
		Issuer:    "goauthless-test",
		Audiences: []string{"goauthless-web"},
		Clock:     testClock{},
		UUID:      testUUID{},
	})
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	return j
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short"), Clock: testClock{}, UUID: testUUID{}})
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	j := newTestJWT(t)

	token, err := j.Generate(42, "jo@example.com", PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	clm, err := j.Verify(token, PurposeAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if clm.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", clm.UserID)
	}
	if clm.UserEmail != "jo@example.com" {
		t.Fatalf("expected email jo@example.com, got %q", clm.UserEmail)
	}
	if clm.Purpose != PurposeAccess {
		t.Fatalf("expected purpose access, got %q", clm.Purpose)
	}
	if clm.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", clm.Subject)
	}
}

func TestGenerateRejectsUnknownPurpose(t *testing.T) {
	j := newTestJWT(t)

	if _, err := j.Generate(1, "jo@example.com", Purpose("session"), time.Minute); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsPurposeMismatch(t *testing.T) {
	j := newTestJWT(t)

	for _, generated := range []Purpose{PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerifyEmail} {
		token, err := j.Generate(7, "jo@example.com", generated, time.Minute)
		if err != nil {
			t.Fatalf("generate %s: %v", generated, err)
		}

		for _, expected := range []Purpose{PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerifyEmail} {
			if expected == generated {
				continue
			}
			if _, err := j.Verify(token, expected); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("%s token verified as %s: %v", generated, expected, err)
			}
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	j := newTestJWT(t)

	token, err := j.Generate(7, "jo@example.com", PurposeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := j.Verify(token, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	j := newTestJWT(t)

	token, err := j.Generate(7, "jo@example.com", PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := j.Verify(tampered, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := j.Verify("not-a-token", PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	j := newTestJWT(t)

	other, err := NewHS512(Config{
		Secret:    testSecret,
		Issuer:    "someone-else",
		Audiences: []string{"goauthless-web"},
		Clock:     testClock{},
		UUID:      testUUID{},
	})
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	token, err := other.Generate(7, "jo@example.com", PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := j.Verify(token, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthContextRoundTrip(t *testing.T) {
	if clm := GetAuth(context.Background()); clm != nil {
		t.Fatalf("expected nil claims on empty context, got %+v", clm)
	}

	ctx := SetAuth(context.Background(), Claims{UserID: 9, UserEmail: "jo@example.com"})
	clm := GetAuth(ctx)
	if clm == nil {
		t.Fatal("expected claims, got nil")
	}
	if clm.UserID != 9 || clm.UserEmail != "jo@example.com" {
		t.Fatalf("unexpected claims %+v", clm)
	}
}

func TestPurposeIsValid(t *testing.T) {
	for _, p := range []Purpose{PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerifyEmail} {
		if !p.IsValid() {
			t.Fatalf("purpose %q should be valid", p)
		}
	}
	for _, p := range []Purpose{"", "session", "ACCESS"} {
		if p.IsValid() {
			t.Fatalf("purpose %q should be invalid", p)
		}
	}
}
