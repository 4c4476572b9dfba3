package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shandysiswandi/goauthless/internal/identity/usecase"
	"github.com/shandysiswandi/goauthless/internal/pkg/config"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Mailer is the synchronous delivery boundary for authentication emails.
// Failures propagate to the caller; codes and tokens are persisted before any
// send, so a failed delivery leaves the record valid until its TTL.
type Mailer struct {
	client mail.Mail
	cfg    config.Config
	ins    instrument.Instrumentation
}

func New(client mail.Mail, cfg config.Config, ins instrument.Instrumentation) *Mailer {
	return &Mailer{client: client, cfg: cfg, ins: ins}
}

func (m *Mailer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("identity.outbound.mailer").Start(ctx, name)
}

func (m *Mailer) send(ctx context.Context, span trace.Span, msg mail.Message) error {
	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Mailer) SendOtpCode(ctx context.Context, msg usecase.OtpCodeEmail) error {
	ctx, span := m.startSpan(ctx, "SendOtpCode")
	defer span.End()

	return m.send(ctx, span, mail.Message{
		To:      []string{msg.Email},
		Subject: "Your verification code",
		TextBody: fmt.Sprintf(
			"Your verification code is %s. It expires in %d minutes. "+
				"If you did not request this, you can ignore this email.",
			msg.Code, int(m.cfg.GetMinute("modules.identity.otp_ttl_minutes").Minutes())),
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, msg usecase.PasswordResetEmail) error {
	ctx, span := m.startSpan(ctx, "SendPasswordReset")
	defer span.End()

	link := m.cfg.GetString("app.web") + "/reset-password?token=" + url.QueryEscape(msg.ResetToken)

	return m.send(ctx, span, mail.Message{
		To:      []string{msg.Email},
		Subject: "Reset your password",
		TextBody: fmt.Sprintf(
			"Your verification code is %s.\n\n"+
				"You can also reset your password directly: %s\n\n"+
				"If you did not request this, you can ignore this email.",
			msg.Code, link),
	})
}

func (m *Mailer) SendEmailVerification(ctx context.Context, msg usecase.EmailVerificationEmail) error {
	ctx, span := m.startSpan(ctx, "SendEmailVerification")
	defer span.End()

	link := m.cfg.GetString("app.web") + "/verify-email?token=" + url.QueryEscape(msg.VerifyToken)

	return m.send(ctx, span, mail.Message{
		To:       []string{msg.Email},
		Subject:  "Verify your email address",
		TextBody: "Confirm your email address by opening this link: " + link,
	})
}
