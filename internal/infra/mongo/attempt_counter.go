package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-risk-service/internal/domain"
)

const usersCollection = "users"

// AttemptCounter increments quizAttempts on documents of the users
// collection. User documents are owned by the auth service; the counter never
// creates them.
type AttemptCounter struct {
	collection *mongo.Collection
}

func NewAttemptCounter(db *mongo.Database) *AttemptCounter {
	return &AttemptCounter{collection: db.Collection(usersCollection)}
}

// Increment bumps the user's counter and returns the new value. It returns
// domain.ErrUserNotFound when no user document matches.
func (c *AttemptCounter) Increment(ctx context.Context, userID string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"quizAttempts": 1})

	var doc struct {
		QuizAttempts int64 `bson:"quizAttempts"`
	}
	err := c.collection.FindOneAndUpdate(ctx,
		userFilter(userID),
		bson.M{"$inc": bson.M{"quizAttempts": 1}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("increment attempts for %s: %w", userID, domain.ErrUserNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment attempts for %s: %w", userID, err)
	}
	return doc.QuizAttempts, nil
}

// userFilter matches the user by ObjectId when userID is a hex object id and
// by the raw string otherwise.
func userFilter(userID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": userID}
}
