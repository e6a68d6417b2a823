package leave

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type StoreAPI interface {
	Create(ctx context.Context, req *LeaveRequest) error
	FindByID(ctx context.Context, id bson.ObjectID) (*LeaveRequest, error)
	ListByUser(ctx context.Context, userID bson.ObjectID, limit, offset int) ([]LeaveRequest, error)
}

// LeaveTypeChecker resolves leave type references on submission.
type LeaveTypeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// PermissionChecker answers role permission checks.
type PermissionChecker interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}
