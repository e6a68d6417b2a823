package leavetype

import "context"

// StoreAPI persists leave types. Finders return (nil, nil) on no match and
// ids that are not valid object ids behave as missing.
type StoreAPI interface {
	Create(ctx context.Context, lt *LeaveType) error
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByName(ctx context.Context, name string) (*LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Replace(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, id string) (bool, error)
}
