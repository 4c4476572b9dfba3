package db

import (
	"context"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
)

const getUserByEmailSQL = `
SELECT id, email, full_name, phone_number, status, updated_at
FROM identity_users
WHERE email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, getUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PhoneNumber, &u.Status, &u.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

const getUserByIDSQL = `
SELECT id, email, full_name, phone_number, status, updated_at
FROM identity_users
WHERE id = $1`

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, getUserByIDSQL, id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PhoneNumber, &u.Status, &u.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

const getActiveOtpCodeSQL = `
SELECT id, email, code, purpose, issued_at, metadata
FROM identity_otp_codes
WHERE email = $1 AND code = $2
ORDER BY issued_at DESC
LIMIT 1`

// GetActiveOtpCode returns the most recently issued matching code. Expiry is
// not checked here; the caller owns the TTL policy.
func (s *DB) GetActiveOtpCode(ctx context.Context, email, code string) (_ *entity.OtpCode, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveOtpCode")
	defer func() { s.endSpan(span, err) }()

	var o entity.OtpCode
	err = s.conn.QueryRow(ctx, getActiveOtpCodeSQL, email, code).
		Scan(&o.ID, &o.Email, &o.Code, &o.Purpose, &o.IssuedAt, &o.Metadata)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &o, nil
}

const getUserRefreshTokenSQL = `
SELECT u.id, u.email, u.status,
       rt.id, rt.token, rt.revoked, rt.replaced_by_token_id, rt.expires_at
FROM identity_refresh_tokens rt
JOIN identity_users u ON u.id = rt.user_id
WHERE rt.token = $1`

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, getUserRefreshTokenSQL, token).
		Scan(&rt.UserID, &rt.UserEmail, &rt.UserStatus,
			&rt.RefreshID, &rt.RefreshToken, &rt.RefreshRevoked,
			&rt.RefreshReplacedByTokenID, &rt.RefreshExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}
