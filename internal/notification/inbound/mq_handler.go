package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/goauthless/internal/notification/usecase"
	"github.com/shandysiswandi/goauthless/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthless/internal/pkg/messaging"
	"github.com/shandysiswandi/goauthless/internal/pkg/uid"
	"github.com/shandysiswandi/goauthless/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type uc interface {
	ConsumeIdentityVerified(ctx context.Context, in usecase.ConsumeIdentityVerifiedInput) error
}

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) IdentityVerifiedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "IdentityVerifiedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: identity verified notification", "msg_body", string(body))

	var payload event.IdentityVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of identity verified notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeIdentityVerified(ctx, usecase.ConsumeIdentityVerifiedInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
		NewUser:  payload.NewUser,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume identity verified", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
