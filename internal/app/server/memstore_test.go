package server

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/domain/user"
)

type memUsers struct {
	mu    sync.Mutex
	users []user.User
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) find(match func(user.User) bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id bson.ObjectID) (*user.User, error) {
	return m.find(func(u user.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	return m.find(func(u user.User) bool { return u.Email == email })
}

func (m *memUsers) ListActive(context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for _, u := range m.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Replace(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return user.ErrUserNotFound
}

type memLeaveTypes struct {
	mu    sync.Mutex
	types []leavetype.LeaveType
}

func (m *memLeaveTypes) Create(_ context.Context, lt *leavetype.LeaveType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lt.ID = bson.NewObjectID().Hex()
	m.types = append(m.types, *lt)
	return nil
}

func (m *memLeaveTypes) find(match func(leavetype.LeaveType) bool) (*leavetype.LeaveType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, lt := range m.types {
		if match(lt) {
			found := lt
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memLeaveTypes) FindByID(_ context.Context, id string) (*leavetype.LeaveType, error) {
	return m.find(func(lt leavetype.LeaveType) bool { return lt.ID == id })
}

func (m *memLeaveTypes) FindByName(_ context.Context, name string) (*leavetype.LeaveType, error) {
	return m.find(func(lt leavetype.LeaveType) bool { return lt.Name == name })
}

func (m *memLeaveTypes) List(context.Context) ([]leavetype.LeaveType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]leavetype.LeaveType(nil), m.types...), nil
}

func (m *memLeaveTypes) Replace(_ context.Context, lt *leavetype.LeaveType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.types {
		if m.types[i].ID == lt.ID {
			m.types[i] = *lt
			return nil
		}
	}
	return leavetype.ErrLeaveTypeNotFound
}

func (m *memLeaveTypes) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.types {
		if m.types[i].ID == id {
			m.types = append(m.types[:i], m.types[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memLeaves struct {
	mu   sync.Mutex
	reqs []leave.LeaveRequest
}

func (m *memLeaves) Create(_ context.Context, req *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.ID = bson.NewObjectID()
	m.reqs = append(m.reqs, *req)
	return nil
}

func (m *memLeaves) FindByID(_ context.Context, id bson.ObjectID) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.reqs {
		if req.ID == id {
			found := req
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memLeaves) ListByUser(_ context.Context, userID bson.ObjectID, limit, offset int) ([]leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LeaveRequest
	for i := len(m.reqs) - 1; i >= 0; i-- {
		if m.reqs[i].UserID == userID {
			out = append(out, m.reqs[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *memAudit) Insert(_ context.Context, evt *audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	evt.ID = bson.NewObjectID()
	m.events = append(m.events, *evt)
	return nil
}

func (m *memAudit) matching(filter audit.Filter) []audit.Event {
	var out []audit.Event
	for i := len(m.events) - 1; i >= 0; i-- {
		evt := m.events[i]
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		if filter.ActorID != "" && evt.ActorID != filter.ActorID {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func (m *memAudit) List(_ context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(filter)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAudit) Count(_ context.Context, filter audit.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(filter))), nil
}
