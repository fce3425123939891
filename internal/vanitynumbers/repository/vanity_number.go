package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	vanitynumberserrors "vanity/internal/vanitynumbers/errors"
	"vanity/pkg/config"
	"vanity/pkg/model"
)

const (
	CollectionName = "vanity_numbers"
)

type VanityRepository interface {
	Upsert(ctx context.Context, record *model.VanityRecord) error
	FindByPhone(ctx context.Context, phone string) (*model.VanityRecord, error)
	FindRecent(ctx context.Context, limit int) ([]*model.VanityRecord, error)
}

type mongoVanityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVanityRepository(cfg *config.Config) VanityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVanityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds ctx by timeout unless ctx already expires sooner or is a
// session context, which cannot be wrapped without leaving the transaction.
func (r *mongoVanityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

// Upsert replaces the caller's previous record, keeping its id.
func (r *mongoVanityRepository) Upsert(ctx context.Context, record *model.VanityRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = time.Now().UTC()
	}
	record.GeneratedAt = record.GeneratedAt.Truncate(time.Millisecond)

	filter := bson.M{"phone": record.Phone}
	update := bson.M{
		"$set": bson.M{
			"digits":                 record.Digits,
			"candidate_count":        record.CandidateCount,
			"selected":               record.Selected,
			"phonetics":              record.Phonetics,
			"outcome":                record.Outcome,
			"ranking_status":         record.RankingStatus,
			"oracle":                 record.Oracle,
			"layout":                 record.Layout,
			"dictionary_fingerprint": record.DictionaryFingerprint,
			"generated_at":           record.GeneratedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return storeError(fmt.Sprintf("failed to upsert vanity record for phone [%s]", record.Phone), err)
	}
	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoVanityRepository) FindByPhone(ctx context.Context, phone string) (*model.VanityRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var record model.VanityRecord
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", vanitynumberserrors.ErrNotFound, phone)
		}
		return nil, storeError("failed to find vanity record", err)
	}
	return &record, nil
}

// FindRecent returns the newest records first.
func (r *mongoVanityRepository) FindRecent(ctx context.Context, limit int) ([]*model.VanityRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "generated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeError("failed to query vanity records", err)
	}
	defer cursor.Close(ctx)

	records := []*model.VanityRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, storeError("failed to decode vanity records", err)
	}
	return records, nil
}

func storeError(msg string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", msg, vanitynumberserrors.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
