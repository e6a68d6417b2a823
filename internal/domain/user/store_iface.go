package user

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// StoreAPI is the persistence boundary of the user directory. Finders
// return (nil, nil) when no document matches.
type StoreAPI interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context) ([]User, error)
	Replace(ctx context.Context, u *User) error
}
