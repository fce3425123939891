package contact

import (
	"context"
	"strings"

	"vanity/internal/vanitynumbers/service"
	"vanity/pkg/logger"
	"vanity/pkg/model"
)

// Processor runs a contact flow event through the vanity service.
type Processor struct {
	service service.VanityService
	log     *logger.Logger
}

func NewProcessor(svc service.VanityService, log *logger.Logger) *Processor {
	return &Processor{service: svc, log: log}
}

// Process returns the contact flow response for event. The error is the
// service error, for callers that need to classify it; the response is
// always usable.
func (p *Processor) Process(ctx context.Context, event *Event) (Response, error) {
	ctx = service.WithCorrelationID(ctx, event.ContactID())

	result, err := p.service.Generate(ctx, event.CallerNumber())
	if err != nil {
		p.log.Warn("Contact flow generation failed",
			"contact_id", event.ContactID(),
			"error", err,
		)
		return Failure(), err
	}

	if result.Outcome == model.OutcomeNoCandidates {
		p.log.Info("No vanity candidates for caller", "contact_id", event.ContactID(), "digits", result.Digits)
		return Failure(), nil
	}

	return Response{
		VanityNumberSuccess: true,
		VanityNumbers:       strings.Join(result.Selected, ", "),
	}, nil
}
