package audit

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, evt *Event) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
