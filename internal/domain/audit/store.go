package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "audit_events"

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
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, evt *Event) error {
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	res, err := s.coll.InsertOne(ctx, evt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		evt.ID = id
	}
	return nil
}

func filterDoc(filter Filter) bson.M {
	doc := bson.M{}
	if filter.Action != "" {
		doc["action"] = filter.Action
	}
	if filter.EntityType != "" {
		doc["entity_type"] = filter.EntityType
	}
	if filter.ActorID != "" {
		doc["actor_id"] = filter.ActorID
	}
	return doc
}

// List returns matching events newest first. A limit of zero returns all.
func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, filter Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}
