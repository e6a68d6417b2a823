package leavetype

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"leavedesk/internal/platform/logger"
)

type Service struct {
	store StoreAPI
	log   *zap.Logger
}

func NewService(store StoreAPI, log *zap.Logger) *Service {
	return &Service{store: store, log: logger.Named("leavetype", log)}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*LeaveType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.DefaultAllowance == nil {
		return nil, ErrMissingFields
	}
	if in.DefaultAllowance.IsNegative() {
		return nil, ErrNegativeAllowance
	}

	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	lt := &LeaveType{
		Name:             name,
		DefaultAllowance: *in.DefaultAllowance,
		Description:      strings.TrimSpace(in.Description),
	}
	if err := s.store.Create(ctx, lt); err != nil {
		return nil, err
	}
	s.log.Info("leave type created", zap.String("leave_type_id", lt.ID), zap.String("name", lt.Name))
	return lt, nil
}

func (s *Service) List(ctx context.Context) ([]LeaveType, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*LeaveType, error) {
	lt, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, ErrLeaveTypeNotFound
	}
	return lt, nil
}

// Exists reports whether id names a stored leave type.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	lt, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return lt != nil, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*LeaveType, error) {
	lt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		if name != lt.Name {
			other, err := s.store.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, ErrNameTaken
			}
			lt.Name = name
		}
	}
	if in.DefaultAllowance != nil {
		if in.DefaultAllowance.IsNegative() {
			return nil, ErrNegativeAllowance
		}
		lt.DefaultAllowance = *in.DefaultAllowance
	}
	if in.Description != nil {
		lt.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.store.Replace(ctx, lt); err != nil {
		return nil, err
	}
	s.log.Info("leave type updated", zap.String("leave_type_id", lt.ID))
	return lt, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLeaveTypeNotFound
	}
	s.log.Info("leave type deleted", zap.String("leave_type_id", id))
	return nil
}
