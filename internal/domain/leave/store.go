package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "leave_requests"

type Store struct {
	coll *mongo.Collection
}

func NewStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	s := &Store{coll: db.Collection(collectionName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create leave request indexes: %w", err)
	}
	return nil
}

// Create inserts a single leave request document and sets its ID.
func (s *Store) Create(ctx context.Context, req *LeaveRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.UpdatedAt = req.CreatedAt
	res, err := s.coll.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	req.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *Store) FindByID(ctx context.Context, id bson.ObjectID) (*LeaveRequest, error) {
	var req LeaveRequest
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find leave request: %w", err)
	}
	return &req, nil
}

// ListByUser returns the user's requests newest first. A limit of zero
// returns everything after offset.
func (s *Store) ListByUser(ctx context.Context, userID bson.ObjectID, limit, offset int) ([]LeaveRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	requests := []LeaveRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode leave requests: %w", err)
	}
	return requests, nil
}
