package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/goauthless/internal/identity/entity"
	"github.com/shandysiswandi/goauthless/internal/pkg/config"
	"github.com/shandysiswandi/goauthless/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthless/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
	"github.com/shandysiswandi/goauthless/internal/pkg/lock"
	"github.com/shandysiswandi/goauthless/internal/pkg/validator"
)

var errBoom = errors.New("boom")

const testConfigYAML = `
modules:
  identity:
    otp_ttl_minutes: 10
    otp_sweep_interval_minutes: 15
    verify_lock_ttl_seconds: 10
    access_token_ttl_minutes: 15
    refresh_token_ttl_days: 30
    reset_token_ttl_minutes: 30
    verify_email_token_ttl_minutes: 60
`

type fakeDB struct {
	mu sync.Mutex

	users        map[string]*entity.User
	usersByID    map[int64]*entity.User
	otpCodes     []entity.OtpCode
	refreshRows  []entity.RefreshToken
	userToken    *entity.UserRefreshToken
	rotated      []entity.RotateRefreshToken
	revokedAll   []int64
	revoked      []string
	credentials  map[int64]string
	statusMoves  []int64
	deletedMails []string
	deletedIDs   [][]int64

	getUserByEmailErr  error
	getOtpErr          error
	getUserTokenErr    error
	createUserErr      error
	createOtpErr       error
	createRefreshErr   error
	rotateErr          error
	deleteByEmailErr   error
	updateStatusResult bool
	listExpiredIDs     []int64
	deleteByIDsErr     error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:              map[string]*entity.User{},
		usersByID:          map[int64]*entity.User{},
		credentials:        map[int64]string{},
		updateStatusResult: true,
	}
}

func (f *fakeDB) addUser(u entity.User) {
	f.users[u.Email] = &u
	f.usersByID[u.ID] = &u
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.getUserByEmailErr != nil {
		return nil, f.getUserByEmailErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) GetActiveOtpCode(_ context.Context, email, code string) (*entity.OtpCode, error) {
	if f.getOtpErr != nil {
		return nil, f.getOtpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.otpCodes) - 1; i >= 0; i-- {
		rec := f.otpCodes[i]
		if rec.Email == email && rec.Code == code {
			return &rec, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	if f.getUserTokenErr != nil {
		return nil, f.getUserTokenErr
	}
	if f.userToken == nil || f.userToken.RefreshToken != token {
		return nil, goerror.ErrNotFound
	}
	return f.userToken, nil
}

func (f *fakeDB) CreateOtpCode(_ context.Context, in entity.OtpCode) error {
	if f.createOtpErr != nil {
		return f.createOtpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpCodes = append(f.otpCodes, in)
	return nil
}

func (f *fakeDB) CreateUser(_ context.Context, in entity.NewUser) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	if _, ok := f.users[in.Email]; ok {
		return goerror.ErrConflict
	}
	f.addUser(entity.User{
		ID:          in.ID,
		Email:       in.Email,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Status:      in.Status,
	})
	return nil
}

func (f *fakeDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	if f.createRefreshErr != nil {
		return f.createRefreshErr
	}
	f.refreshRows = append(f.refreshRows, in)
	return nil
}

func (f *fakeDB) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	f.rotated = append(f.rotated, ro)
	return nil
}

func (f *fakeDB) RevokeRefreshToken(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeDB) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func (f *fakeDB) UpdateUserStatus(_ context.Context, id int64, _, _ entity.UserStatus) (bool, error) {
	f.statusMoves = append(f.statusMoves, id)
	return f.updateStatusResult, nil
}

func (f *fakeDB) UpdateUserCredential(_ context.Context, userID int64, hash string) error {
	f.credentials[userID] = hash
	return nil
}

func (f *fakeDB) DeleteOtpCodesByEmail(_ context.Context, email string) (int64, error) {
	if f.deleteByEmailErr != nil {
		return 0, f.deleteByEmailErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMails = append(f.deletedMails, email)

	var kept []entity.OtpCode
	var removed int64
	for _, rec := range f.otpCodes {
		if rec.Email == email {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	f.otpCodes = kept
	return removed, nil
}

func (f *fakeDB) ListExpiredOtpCodeIDs(_ context.Context, _ time.Time) ([]int64, error) {
	return f.listExpiredIDs, nil
}

func (f *fakeDB) DeleteOtpCodesByIDs(_ context.Context, ids []int64) (int64, error) {
	if f.deleteByIDsErr != nil {
		return 0, f.deleteByIDsErr
	}
	f.deletedIDs = append(f.deletedIDs, ids)
	return int64(len(ids)), nil
}

type fakeMailer struct {
	mu sync.Mutex

	otpCodes       []OtpCodeEmail
	passwordResets []PasswordResetEmail
	verifications  []EmailVerificationEmail

	sendOtpErr    error
	sendResetErr  error
	sendVerifyErr error
}

func (f *fakeMailer) SendOtpCode(_ context.Context, msg OtpCodeEmail) error {
	if f.sendOtpErr != nil {
		return f.sendOtpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpCodes = append(f.otpCodes, msg)
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, msg PasswordResetEmail) error {
	if f.sendResetErr != nil {
		return f.sendResetErr
	}
	f.passwordResets = append(f.passwordResets, msg)
	return nil
}

func (f *fakeMailer) SendEmailVerification(_ context.Context, msg EmailVerificationEmail) error {
	if f.sendVerifyErr != nil {
		return f.sendVerifyErr
	}
	f.verifications = append(f.verifications, msg)
	return nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []IdentityVerifiedEvent
	err    error
}

func (f *fakeMessaging) PublishIdentityVerified(_ context.Context, msg IdentityVerifiedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return nil
}

func (f *fakeMessaging) published() []IdentityVerifiedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IdentityVerifiedEvent{}, f.events...)
}

type fakeLocker struct {
	mu       sync.Mutex
	acquired []string
	released int
	err      error
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.acquired = append(f.acquired, key)
	f.mu.Unlock()

	return func(context.Context) error {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
		return nil
	}, nil
}

type fakeHash struct{ err error }

func (f fakeHash) Hash(str string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("hashed:" + str), nil
}

func (f fakeHash) Verify(hashed, str string) bool {
	return string(hashed) == "hashed:"+str
}

type fakeJWT struct {
	generateErr error
	verifyErr   error
	claims      jwt.Claims
}

func (f *fakeJWT) Generate(uid int64, _ string, purpose jwt.Purpose, _ time.Duration) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return string(purpose) + "-token-" + strconv.FormatInt(uid, 10), nil
}

func (f *fakeJWT) Verify(tokenStr string, expected jwt.Purpose) (jwt.Claims, error) {
	if f.verifyErr != nil {
		return jwt.Claims{}, f.verifyErr
	}
	if !strings.HasPrefix(tokenStr, string(expected)+"-token-") {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return f.claims, nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

type fixedCode struct {
	code string
	err  error
}

func (f fixedCode) Generate() (string, error) { return f.code, f.err }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type fixture struct {
	uc     *Usecase
	db     *fakeDB
	mailer *fakeMailer
	msg    *fakeMessaging
	locker *fakeLocker
	jwt    *fakeJWT
	gr     *goroutine.Manager
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	fx := &fixture{
		db:     newFakeDB(),
		mailer: &fakeMailer{},
		msg:    &fakeMessaging{},
		locker: &fakeLocker{},
		jwt:    &fakeJWT{},
		gr:     goroutine.NewManager(10),
		now:    time.Now(),
	}

	fx.uc = New(Dependency{
		RepoDB:     fx.db,
		RepoMailer: fx.mailer,
		RepoMsg:    fx.msg,
		Validator:  v,
		Config:     cfg,
		HMAC:       fakeHash{},
		Password:   fakeHash{},
		UID:        &seqID{},
		Code:       fixedCode{code: "1234"},
		Locker:     fx.locker,
		Clock:      fixedClock{t: fx.now},
		JWT:        fx.jwt,
		Instrument: instrument.NewNoop(),
		Goroutine:  fx.gr,
	})

	return fx
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, gerr.Code(), err)
	}
}

func TestEnsureUserStatusAllowed(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if err := fx.uc.ensureUserStatusAllowed(ctx, 1, entity.UserStatusActive); err != nil {
		t.Fatalf("active should be allowed: %v", err)
	}
	if err := fx.uc.ensureUserStatusAllowed(ctx, 1, entity.UserStatusUnverified); err != nil {
		t.Fatalf("unverified should be allowed: %v", err)
	}

	for _, status := range []entity.UserStatus{entity.UserStatusBanned, entity.UserStatusInactive, entity.UserStatusUnknown} {
		err := fx.uc.ensureUserStatusAllowed(ctx, 1, status)
		assertBusinessCode(t, err, goerror.CodeForbidden)
	}
}

func TestVerifyLockNotAcquiredAfterRetries(t *testing.T) {
	fx := newFixture(t)
	fx.locker.err = lock.ErrNotAcquired
	fx.db.addUser(entity.User{ID: 1, Email: "jo@example.com", Status: entity.UserStatusActive})

	_, err := fx.uc.VerifyOtp(context.Background(), VerifyOtpInput{Email: "jo@example.com", Code: "1234"})
	if err == nil {
		t.Fatal("expected error when lock is never acquired")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error, got %v", err)
	}
}
