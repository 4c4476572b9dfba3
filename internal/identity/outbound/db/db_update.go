package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
)

const revokeRefreshTokenSQL = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE token = $1 AND revoked = FALSE`

// RevokeRefreshToken is idempotent: revoking an unknown or already-revoked
// token affects zero rows and is not an error.
func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, revokeRefreshTokenSQL, token)

	return s.mapError(err)
}

const revokeAllRefreshTokenSQL = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE user_id = $1 AND revoked = FALSE`

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, revokeAllRefreshTokenSQL, userID)

	return s.mapError(err)
}

const updateUserStatusSQL = `
UPDATE identity_users
SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2`

// UpdateUserStatus transitions the status conditionally and reports whether a
// row actually changed.
func (s *DB) UpdateUserStatus(ctx context.Context, id int64, oldStatus, newStatus entity.UserStatus) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, updateUserStatusSQL, id, oldStatus, newStatus)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

const upsertUserCredentialSQL = `
INSERT INTO identity_user_credentials (user_id, password, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE
SET password = EXCLUDED.password, updated_at = NOW()`

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, upsertUserCredentialSQL, userID, hash)

	return s.mapError(err)
}

const replaceRefreshTokenSQL = `
UPDATE identity_refresh_tokens
SET revoked = TRUE, replaced_by_token_id = $2
WHERE id = $1 AND revoked = FALSE`

const insertRotatedRefreshTokenSQL = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at)
VALUES ($1, $2, $3, $4)`

// RotateRefreshToken revokes the old row and inserts its replacement in one
// transaction. A concurrent rotation loses with ErrNotFound.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, replaceRefreshTokenSQL, ro.OldID, ro.NewID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, insertRotatedRefreshTokenSQL,
		ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
