package contact

import (
	"context"
	"errors"

	apperrors "vanity/pkg/errors"
	"vanity/pkg/kafka"
)

// HandleMessage is the kafka.MessageHandler for the contact events topic.
// Undecodable events go to the DLQ, callers the engine cannot serve are
// dropped, and infrastructure timeouts are retried.
func (p *Processor) HandleMessage(ctx context.Context, msg kafka.Message) error {
	event, err := ParseEvent(msg.Value)
	if err != nil {
		return kafka.NewPermanentError("invalid contact event", err).
			WithDetail("event_id", msg.GetEventID())
	}

	if corr := msg.GetCorrelationID(); corr != "" && event.ContactID() == "" {
		event.Details.ContactData.ContactID = corr
	}

	if _, err := p.Process(ctx, event); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeInvalidPhoneFormat, apperrors.CodeValidation, apperrors.CodeInvalidInput:
		return kafka.NewBusinessError("caller cannot be served", err)
	case apperrors.CodeTimeout, apperrors.CodeUnavailable:
		return kafka.NewTransientError("vanity generation unavailable", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return kafka.NewTransientError("vanity generation timed out", err)
	}
	return kafka.NewPermanentError("vanity generation failed", err)
}
