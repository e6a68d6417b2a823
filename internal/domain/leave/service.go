package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/workday"
	"leavedesk/internal/platform/logger"
)

// DefaultMaxRangeDays caps a request's calendar span when no limit is given.
const DefaultMaxRangeDays = 366

type Service struct {
	store        StoreAPI
	types        LeaveTypeChecker
	perms        PermissionChecker
	maxRangeDays int
	log          *zap.Logger
	now          func() time.Time
}

func NewService(store StoreAPI, types LeaveTypeChecker, perms PermissionChecker, maxRangeDays int, log *zap.Logger) *Service {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Service{
		store:        store,
		types:        types,
		perms:        perms,
		maxRangeDays: maxRangeDays,
		log:          logger.Named("leave", log),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type plan struct {
	start       time.Time
	end         time.Time
	leaveTypeID bson.ObjectID
	days        []workday.LeaveDay
}

// prepare runs the submission checks in order: dates present and parseable,
// start not after end, span within the limit, leave type known, at least
// one working day.
func (s *Service) prepare(ctx context.Context, requester auth.UserContext, leaveType, startDate, endDate string, requireType bool) (plan, error) {
	var p plan
	start, okStart := ParseDate(startDate)
	end, okEnd := ParseDate(endDate)
	if !okStart || !okEnd || (requireType && strings.TrimSpace(leaveType) == "") {
		return p, ErrMissingFields
	}
	if start.After(end) {
		return p, ErrStartAfterEnd
	}
	if workday.CountCalendarDays(start, end) > s.maxRangeDays {
		return p, ErrRangeTooLong
	}

	if leaveType = strings.TrimSpace(leaveType); leaveType != "" {
		id, err := bson.ObjectIDFromHex(leaveType)
		if err != nil {
			return p, ErrInvalidLeaveType
		}
		ok, err := s.types.Exists(ctx, leaveType)
		if err != nil {
			return p, err
		}
		if !ok {
			return p, ErrInvalidLeaveType
		}
		p.leaveTypeID = id
	}

	days := workday.Expand(start, end, requester.Schedule)
	if len(days) == 0 {
		return p, ErrNoWorkingDays
	}
	p.start, p.end, p.days = start, end, days
	return p, nil
}

// Submit validates a leave request against the requester's current weekly
// schedule and stores it as pending.
func (s *Service) Submit(ctx context.Context, requester auth.UserContext, in SubmitInput) (*LeaveRequest, error) {
	userID, err := bson.ObjectIDFromHex(requester.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, ErrMissingFields
	}
	p, err := s.prepare(ctx, requester, in.LeaveType, in.StartDate, in.EndDate, true)
	if err != nil {
		return nil, err
	}

	req := &LeaveRequest{
		UserID:      userID,
		LeaveTypeID: p.leaveTypeID,
		StartDate:   p.start,
		EndDate:     p.end,
		Reason:      reason,
		Status:      StatusPending,
		LeaveDays:   p.days,
		CreatedAt:   s.now(),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info("leave request submitted",
		zap.String("leave_request_id", req.ID.Hex()),
		zap.String("user_id", requester.UserID),
		zap.Int("working_days", len(req.LeaveDays)),
	)
	return req, nil
}

// Preview runs the submission checks and expansion without storing anything.
func (s *Service) Preview(ctx context.Context, requester auth.UserContext, in PreviewInput) (*Preview, error) {
	p, err := s.prepare(ctx, requester, in.LeaveType, in.StartDate, in.EndDate, false)
	if err != nil {
		return nil, err
	}
	return &Preview{
		StartDate:    p.start,
		EndDate:      p.end,
		CalendarDays: workday.CountCalendarDays(p.start, p.end),
		WorkingDays:  len(p.days),
		LeaveDays:    p.days,
	}, nil
}

// ListMine pages through the requester's own requests, newest first.
func (s *Service) ListMine(ctx context.Context, requester auth.UserContext, limit, offset int) ([]LeaveRequest, error) {
	userID, err := bson.ObjectIDFromHex(requester.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return s.store.ListByUser(ctx, userID, limit, offset)
}

// Get returns a request visible to the requester: their own, or any when the
// requester's role holds the leave.read_all permission.
func (s *Service) Get(ctx context.Context, requester auth.UserContext, id string) (*LeaveRequest, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrLeaveRequestNotFound
	}
	req, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrLeaveRequestNotFound
	}
	if req.UserID.Hex() == requester.UserID {
		return req, nil
	}
	allowed, err := s.perms.HasPermission(ctx, requester.RoleName, auth.PermLeaveReadAll)
	if err != nil {
		return nil, fmt.Errorf("permission check: %w", err)
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return req, nil
}
