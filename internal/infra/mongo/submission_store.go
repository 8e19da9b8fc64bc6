package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-risk-service/internal/domain"
)

const submissionsCollection = "quiz_submissions"

// SubmissionStore keeps assessed submissions in the quiz_submissions collection.
type SubmissionStore struct {
	collection *mongo.Collection
}

func NewSubmissionStore(db *mongo.Database) *SubmissionStore {
	return &SubmissionStore{collection: db.Collection(submissionsCollection)}
}

// EnsureIndexes creates the index backing per-user history queries.
func (s *SubmissionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create submission index: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Insert(ctx context.Context, result domain.SubmissionResult) error {
	if _, err := s.collection.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, id string) (domain.SubmissionResult, error) {
	var result domain.SubmissionResult
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SubmissionResult{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("load submission: %w", err)
	}
	return result, nil
}

func (s *SubmissionStore) Update(ctx context.Context, id string, patch domain.SubmissionPatch) (domain.SubmissionResult, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result domain.SubmissionResult
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)}, opts).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SubmissionResult{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("update submission: %w", err)
	}
	return result, nil
}

func (s *SubmissionStore) List(ctx context.Context) ([]domain.SubmissionResult, error) {
	return s.find(ctx, bson.M{}, 0)
}

func (s *SubmissionStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SubmissionResult, error) {
	return s.find(ctx, bson.M{"userId": userID}, limit)
}

func (s *SubmissionStore) find(ctx context.Context, filter bson.M, limit int) ([]domain.SubmissionResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	out := []domain.SubmissionResult{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return out, nil
}
