package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
)

func activeUserToken(fx *fixture) *entity.UserRefreshToken {
	return &entity.UserRefreshToken{
		UserID:           9,
		UserEmail:        "jo@example.com",
		UserStatus:       entity.UserStatusActive,
		RefreshID:        77,
		RefreshToken:     "hashed:refresh-token-9",
		RefreshExpiresAt: fx.now.Add(24 * time.Hour),
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	fx := newFixture(t)
	fx.db.userToken = activeUserToken(fx)

	out, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}

	if len(fx.db.rotated) != 1 {
		t.Fatalf("expected one rotation, got %d", len(fx.db.rotated))
	}
	ro := fx.db.rotated[0]
	if ro.OldID != 77 || ro.UserID != 9 {
		t.Fatalf("unexpected rotation %+v", ro)
	}
	if ro.NewToken != "hashed:"+out.RefreshToken {
		t.Fatal("rotation must persist the hash of the new refresh token")
	}
}

func TestRefreshTokenStructurallyInvalid(t *testing.T) {
	fx := newFixture(t)
	fx.jwt.verifyErr = jwt.ErrInvalidToken

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenUnknownCounterpart(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenReuseRevokesFamily(t *testing.T) {
	fx := newFixture(t)
	replacedBy := int64(88)
	token := activeUserToken(fx)
	token.RefreshRevoked = true
	token.RefreshReplacedByTokenID = &replacedBy
	fx.db.userToken = token

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeForbidden)

	if len(fx.db.revokedAll) != 1 || fx.db.revokedAll[0] != 9 {
		t.Fatalf("reuse must revoke the whole family, got %v", fx.db.revokedAll)
	}
}

func TestRefreshTokenRevokedWithoutReplacement(t *testing.T) {
	fx := newFixture(t)
	token := activeUserToken(fx)
	token.RefreshRevoked = true
	fx.db.userToken = token

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)

	if len(fx.db.revokedAll) != 0 {
		t.Fatal("plain revocation must not trigger family revocation")
	}
}

func TestRefreshTokenRowExpired(t *testing.T) {
	fx := newFixture(t)
	token := activeUserToken(fx)
	token.RefreshExpiresAt = fx.now.Add(-time.Minute)
	fx.db.userToken = token

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenBannedUser(t *testing.T) {
	fx := newFixture(t)
	token := activeUserToken(fx)
	token.UserStatus = entity.UserStatusBanned
	fx.db.userToken = token

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestRefreshTokenLostRotationRace(t *testing.T) {
	fx := newFixture(t)
	fx.db.userToken = activeUserToken(fx)
	fx.db.rotateErr = goerror.ErrNotFound

	_, err := fx.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "refresh-token-9"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}
