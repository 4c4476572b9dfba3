package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const deleteOtpCodesByEmailSQL = `
DELETE FROM identity_otp_codes
WHERE email = $1`

// DeleteOtpCodesByEmail removes every pending code for the email, matched or
// not. Consumption is deletion.
func (s *DB) DeleteOtpCodesByEmail(ctx context.Context, email string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteOtpCodesByEmail")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deleteOtpCodesByEmailSQL, email)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

const listExpiredOtpCodeIDsSQL = `
SELECT id
FROM identity_otp_codes
WHERE issued_at < $1`

func (s *DB) ListExpiredOtpCodeIDs(ctx context.Context, before time.Time) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListExpiredOtpCodeIDs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listExpiredOtpCodeIDsSQL, before)
	if err != nil {
		return nil, s.mapError(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, s.mapError(err)
	}

	return ids, nil
}

const deleteOtpCodesByIDsSQL = `
DELETE FROM identity_otp_codes
WHERE id = ANY($1)`

func (s *DB) DeleteOtpCodesByIDs(ctx context.Context, ids []int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteOtpCodesByIDs")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deleteOtpCodesByIDsSQL, ids)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
