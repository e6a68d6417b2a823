package leavetype

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "leave_types"

type document struct {
	ID               bson.ObjectID   `bson:"_id,omitempty"`
	Name             string          `bson:"name"`
	DefaultAllowance bson.Decimal128 `bson:"default_allowance"`
	Description      string          `bson:"description"`
	CreatedAt        time.Time       `bson:"created_at"`
	UpdatedAt        time.Time       `bson:"updated_at"`
}

func toDocument(lt *LeaveType) (document, error) {
	allowance, err := bson.ParseDecimal128(lt.DefaultAllowance.String())
	if err != nil {
		return document{}, fmt.Errorf("encode allowance: %w", err)
	}
	doc := document{
		Name:             lt.Name,
		DefaultAllowance: allowance,
		Description:      lt.Description,
		CreatedAt:        lt.CreatedAt,
		UpdatedAt:        lt.UpdatedAt,
	}
	if lt.ID != "" {
		id, err := bson.ObjectIDFromHex(lt.ID)
		if err != nil {
			return document{}, ErrLeaveTypeNotFound
		}
		doc.ID = id
	}
	return doc, nil
}

func (d document) toModel() (LeaveType, error) {
	allowance, err := decimal.NewFromString(d.DefaultAllowance.String())
	if err != nil {
		return LeaveType{}, fmt.Errorf("decode allowance: %w", err)
	}
	return LeaveType{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		DefaultAllowance: allowance,
		Description:      d.Description,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

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
	if _, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create leave type indexes: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, lt *LeaveType) error {
	now := time.Now().UTC()
	lt.CreatedAt = now
	lt.UpdatedAt = now
	doc, err := toDocument(lt)
	if err != nil {
		return err
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("insert leave type: %w", err)
	}
	lt.ID = res.InsertedID.(bson.ObjectID).Hex()
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Store) FindByName(ctx context.Context, name string) (*LeaveType, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*LeaveType, error) {
	var doc document
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find leave type: %w", err)
	}
	lt, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *Store) List(ctx context.Context) ([]LeaveType, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leave types: %w", err)
	}
	types := make([]LeaveType, 0, len(docs))
	for _, doc := range docs {
		lt, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, nil
}

func (s *Store) Replace(ctx context.Context, lt *LeaveType) error {
	lt.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(lt)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("replace leave type: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrLeaveTypeNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete leave type: %w", err)
	}
	return res.DeletedCount > 0, nil
}
