package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"leavedesk/internal/platform/logger"
)

type Service struct {
	store StoreAPI
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store StoreAPI, log *zap.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.Named("audit", log),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Record(ctx context.Context, evt Event) error {
	evt.CreatedAt = s.now()
	if err := s.store.Insert(ctx, &evt); err != nil {
		return err
	}
	s.log.Debug("audit event recorded",
		zap.String("action", evt.Action),
		zap.String("entity_id", evt.EntityID),
		zap.String("actor_id", evt.ActorID),
	)
	return nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, int64, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Export returns every matching event, newest first.
func (s *Service) Export(ctx context.Context, filter Filter) ([]Event, error) {
	return s.store.List(ctx, filter, 0, 0)
}
