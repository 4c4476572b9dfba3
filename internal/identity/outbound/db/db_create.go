package db

import (
	"context"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
)

const createOtpCodeSQL = `
INSERT INTO identity_otp_codes (id, email, code, purpose, issued_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6)`

// CreateOtpCode appends a new code row. It never overwrites or merges with
// existing rows for the same email.
func (s *DB) CreateOtpCode(ctx context.Context, in entity.OtpCode) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOtpCode")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createOtpCodeSQL,
		in.ID, in.Email, in.Code, in.Purpose, in.IssuedAt, in.Metadata)

	return s.mapError(err)
}

const createUserSQL = `
INSERT INTO identity_users (id, email, full_name, phone_number, status)
VALUES ($1, $2, $3, $4, $5)`

func (s *DB) CreateUser(ctx context.Context, in entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createUserSQL,
		in.ID, in.Email, in.FullName, in.PhoneNumber, in.Status)

	return s.mapError(err)
}

const createRefreshTokenSQL = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at)
VALUES ($1, $2, $3, $4)`

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createRefreshTokenSQL,
		in.ID, in.UserID, in.Token, in.ExpiresAt)

	return s.mapError(err)
}
