package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goauthless/internal/identity/inbound"
	"github.com/shandysiswandi/goauthless/internal/identity/outbound/db"
	"github.com/shandysiswandi/goauthless/internal/identity/outbound/mailer"
	"github.com/shandysiswandi/goauthless/internal/identity/outbound/mq"
	"github.com/shandysiswandi/goauthless/internal/identity/usecase"
	"github.com/shandysiswandi/goauthless/internal/pkg/clock"
	"github.com/shandysiswandi/goauthless/internal/pkg/config"
	"github.com/shandysiswandi/goauthless/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthless/internal/pkg/hash"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/jwt"
	"github.com/shandysiswandi/goauthless/internal/pkg/lock"
	"github.com/shandysiswandi/goauthless/internal/pkg/mail"
	"github.com/shandysiswandi/goauthless/internal/pkg/messaging"
	"github.com/shandysiswandi/goauthless/internal/pkg/otp"
	"github.com/shandysiswandi/goauthless/internal/pkg/router"
	"github.com/shandysiswandi/goauthless/internal/pkg/uid"
	"github.com/shandysiswandi/goauthless/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Locker     lock.Locker                `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	Code       otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := mailer.New(dep.Mail, dep.Config, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbAuth,
		RepoMailer: repoMail,
		RepoMsg:    repoMsg,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Password:   dep.Password,
		UID:        dep.UID,
		Code:       dep.Code,
		Locker:     dep.Locker,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Config.GetBool("modules.identity.otp_sweep_enabled") {
		dep.Goroutine.Go(dep.Ctx, uc.RunOtpSweeper)
	}

	return nil
}
