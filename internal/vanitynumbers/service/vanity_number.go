package service

import (
	"context"
	"errors"
	"time"

	"vanity/internal/ranking"
	"vanity/internal/vanitynumbers/cache"
	vanitynumberserrors "vanity/internal/vanitynumbers/errors"
	"vanity/internal/vanitynumbers/repository"
	"vanity/internal/vanitynumbers/validator"
	"vanity/pkg/config"
	apperrors "vanity/pkg/errors"
	"vanity/pkg/kafka"
	"vanity/pkg/logger"
	"vanity/pkg/model"
	"vanity/pkg/sanitizer"
	"vanity/pkg/vanity"
)

const (
	EventTypeGenerated = "vanity.generated"
	EventSource        = "vanity-numbers"
	EventSchemaVersion = "1"
)

type VanityService interface {
	Generate(ctx context.Context, rawPhone string) (*model.VanityResult, error)
	Candidates(ctx context.Context, rawPhone string) (*model.CandidatesResponse, error)
	GetByPhone(ctx context.Context, rawPhone string) (*model.VanityRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*model.VanityRecord, error)
}

// Generator produces the candidate set for a digit sequence.
type Generator interface {
	GenerateDigits(ctx context.Context, digits vanity.DigitSequence) (*vanity.Result, error)
	Layout() vanity.Layout
}

type Ranker interface {
	Rank(ctx context.Context, candidates []string) ranking.Result
	Name() string
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type vanityService struct {
	repo        repository.VanityRepository
	cache       cache.CandidateCache
	engine      Generator
	ranker      Ranker
	publisher   Publisher
	validator   *validator.VanityValidator
	fingerprint string
	log         *logger.Logger
	now         func() time.Time
}

type Option func(*vanityService)

// WithPublisher enables vanity.generated events.
func WithPublisher(p Publisher) Option {
	return func(s *vanityService) { s.publisher = p }
}

func WithCache(c cache.CandidateCache) Option {
	return func(s *vanityService) { s.cache = c }
}

func NewVanityService(
	repo repository.VanityRepository,
	engine Generator,
	ranker Ranker,
	validator *validator.VanityValidator,
	fingerprint string,
	log *logger.Logger,
	opts ...Option,
) VanityService {
	s := &vanityService{
		repo:        repo,
		cache:       cache.NewNoopCandidateCache(),
		engine:      engine,
		ranker:      ranker,
		validator:   validator,
		fingerprint: fingerprint,
		log:         log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalize(rawPhone string) (vanity.DigitSequence, error) {
	digits, err := vanity.Normalize(sanitizer.TrimAndNormalize(rawPhone))
	if err != nil {
		return "", apperrors.InvalidPhoneFormat(rawPhone, err)
	}
	return digits, nil
}

// Generate runs the whole pipeline for one caller. Persisting and publishing
// are best-effort: their failures are logged and reflected in
// VanityResult.Persisted only.
func (s *vanityService) Generate(ctx context.Context, rawPhone string) (*model.VanityResult, error) {
	digits, err := normalize(rawPhone)
	if err != nil {
		s.log.Warn("Rejected phone number", "error", err)
		return nil, err
	}

	candidates, _, err := s.candidates(ctx, digits)
	if err != nil {
		return nil, err
	}
	names := vanity.Strings(candidates)

	record := &model.VanityRecord{
		Phone:                 sanitizer.E164FromDigits(digits.String()),
		Digits:                digits.String(),
		CandidateCount:        len(names),
		Layout:                s.engine.Layout().String(),
		DictionaryFingerprint: s.fingerprint,
	}

	rank := ranking.NoSelection()
	if len(names) > 0 {
		rank = s.ranker.Rank(ctx, names)
		record.Oracle = s.ranker.Name()
	}
	record.Selected = nonNil(rank.Candidates())
	record.Phonetics = nonNil(rank.Phonetics())
	record.RankingStatus = string(rank.Status)
	record.Outcome = outcome(len(names), rank)
	record.GeneratedAt = s.now().UTC()

	persisted := s.persist(ctx, record)
	s.publish(ctx, record)

	s.log.Info("Vanity numbers generated",
		"digits", record.Digits,
		"candidates", record.CandidateCount,
		"selected", len(record.Selected),
		"outcome", record.Outcome,
		"persisted", persisted,
	)

	return &model.VanityResult{
		VanityRecord: *record,
		Candidates:   names,
		Persisted:    persisted,
	}, nil
}

func outcome(candidates int, rank ranking.Result) string {
	switch {
	case candidates == 0:
		return model.OutcomeNoCandidates
	case rank.Status == ranking.StatusUnavailable:
		return model.OutcomeRankingUnavailable
	default:
		return model.OutcomeGenerated
	}
}

func (s *vanityService) Candidates(ctx context.Context, rawPhone string) (*model.CandidatesResponse, error) {
	digits, err := normalize(rawPhone)
	if err != nil {
		return nil, err
	}

	candidates, res, err := s.candidates(ctx, digits)
	if err != nil {
		return nil, err
	}

	resp := &model.CandidatesResponse{
		Digits:     digits.String(),
		Layout:     s.engine.Layout().String(),
		Candidates: nonNil(vanity.Strings(candidates)),
		Count:      len(candidates),
		Cached:     res == nil,
	}
	if res != nil {
		resp.Combinations = res.Combinations
		resp.Matches = res.Matches
		resp.DurationMS = res.Duration.Milliseconds()
	}
	return resp, nil
}

// candidates serves from the cache when possible. The engine result is nil
// on a cache hit.
func (s *vanityService) candidates(ctx context.Context, digits vanity.DigitSequence) ([]vanity.Candidate, *vanity.Result, error) {
	layout := s.engine.Layout()

	cached, err := s.cache.Get(ctx, digits, layout)
	if err == nil {
		return cached, nil, nil
	}
	if !errors.Is(err, vanitynumberserrors.ErrCacheMiss) {
		s.log.Warn("Candidate cache read failed", "digits", digits.String(), "error", err)
	}

	res, err := s.engine.GenerateDigits(ctx, digits)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn("Candidate generation cancelled", "digits", digits.String(), "error", err)
			return nil, nil, apperrors.Timeout("Candidate generation did not finish in time")
		}
		s.log.Error("Candidate generation failed", "digits", digits.String(), "error", err)
		return nil, nil, apperrors.Internal("Failed to generate candidates", err)
	}

	if err := s.cache.Set(ctx, digits, layout, res.Candidates); err != nil {
		s.log.Warn("Candidate cache write failed", "digits", digits.String(), "error", err)
	}
	return res.Candidates, res, nil
}

func (s *vanityService) persist(ctx context.Context, record *model.VanityRecord) bool {
	if err := s.validator.ValidateRecord(record); err != nil {
		s.log.Error("Refusing to store invalid vanity record", "phone", record.Phone, "error", err)
		return false
	}
	if err := s.repo.Upsert(context.WithoutCancel(ctx), record); err != nil {
		s.log.Warn("Failed to store vanity record", "phone", record.Phone, "error", err)
		return false
	}
	return true
}

func (s *vanityService) publish(ctx context.Context, record *model.VanityRecord) {
	if s.publisher == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(record.Digits).
		WithValue(model.VanityGeneratedEvent{
			Phone:          record.Phone,
			Digits:         record.Digits,
			Outcome:        record.Outcome,
			Selected:       record.Selected,
			CandidateCount: record.CandidateCount,
			CorrelationID:  CorrelationID(ctx),
			GeneratedAt:    record.GeneratedAt,
		}).
		WithEventType(EventTypeGenerated).
		WithCorrelationID(CorrelationID(ctx)).
		WithSource(EventSource).
		WithSchemaVersion(EventSchemaVersion).
		Build()
	if err != nil {
		s.log.Error("Failed to build vanity.generated event", "phone", record.Phone, "error", err)
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.log.Warn("Failed to publish vanity.generated event", "phone", record.Phone, "error", err)
	}
}

func (s *vanityService) GetByPhone(ctx context.Context, rawPhone string) (*model.VanityRecord, error) {
	digits, err := normalize(rawPhone)
	if err != nil {
		return nil, err
	}
	phone := sanitizer.E164FromDigits(digits.String())

	record, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, vanitynumberserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vanity record", phone)
		}
		s.log.Error("Failed to get vanity record", "phone", phone, "error", err)
		return nil, storeFailure("Failed to retrieve vanity record", err)
	}
	return record, nil
}

func (s *vanityService) ListRecent(ctx context.Context, limit int) ([]*model.VanityRecord, error) {
	limit = config.NormalizePaginationLimit(limit)

	records, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list vanity records", "limit", limit, "error", err)
		return nil, storeFailure("Failed to retrieve vanity records", err)
	}
	return records, nil
}

func storeFailure(msg string, err error) error {
	if errors.Is(err, vanitynumberserrors.ErrStoreUnavailable) {
		return apperrors.Unavailable("Vanity record store")
	}
	return apperrors.Internal(msg, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
