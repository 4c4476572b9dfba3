package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

func TestLogoutRevokesCounterpart(t *testing.T) {
	fx := newFixture(t)

	if err := fx.uc.Logout(context.Background(), LogoutInput{RefreshToken: "refresh-token-9"}); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(fx.db.revoked) != 1 || fx.db.revoked[0] != "hashed:refresh-token-9" {
		t.Fatalf("expected the hashed counterpart revoked, got %v", fx.db.revoked)
	}
}

func TestLogoutUnverifiableTokenIsSilent(t *testing.T) {
	fx := newFixture(t)
	fx.jwt.verifyErr = jwt.ErrInvalidToken

	if err := fx.uc.Logout(context.Background(), LogoutInput{RefreshToken: "garbage"}); err != nil {
		t.Fatalf("logout must be idempotent on bad tokens: %v", err)
	}

	if len(fx.db.revoked) != 0 {
		t.Fatal("nothing should be revoked for an unverifiable token")
	}
}

func TestLogoutTwiceSucceeds(t *testing.T) {
	fx := newFixture(t)

	in := LogoutInput{RefreshToken: "refresh-token-9"}
	if err := fx.uc.Logout(context.Background(), in); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := fx.uc.Logout(context.Background(), in); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}
