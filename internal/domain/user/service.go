package user

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/workday"
	"leavedesk/internal/platform/logger"
)

type Service struct {
	store         StoreAPI
	resetPassword string
	log           *zap.Logger
}

func NewService(store StoreAPI, resetPassword string, log *zap.Logger) *Service {
	return &Service{store: store, resetPassword: resetPassword, log: logger.Named("user", log)}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account on the default Monday to Friday
// schedule. Only an authenticated admin caller may create another admin;
// every other registration is forced to the employee role.
func (s *Service) Register(ctx context.Context, in RegisterInput, caller *auth.UserContext) (*User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	role := auth.RoleEmployee
	if in.Role != "" && in.Role != auth.RoleEmployee {
		if !auth.ValidRole(in.Role) {
			return nil, ErrInvalidRole
		}
		if caller != nil && caller.IsAdmin() {
			role = in.Role
		}
	}

	existing, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PasswordHash:   hash,
		Role:           role,
		IsActive:       true,
		WeeklySchedule: workday.MondayToFriday(),
		LeaveBalance:   []LeaveBalance{},
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	return u, nil
}

// Authenticate checks credentials. Unknown emails, wrong passwords and
// inactive accounts all report ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive || auth.CheckPassword(u.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListActive(ctx context.Context) ([]User, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) GetActive(ctx context.Context, id string) (*User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// LoadCaller resolves a token subject into the request's user context.
func (s *Service) LoadCaller(ctx context.Context, userID string) (auth.UserContext, error) {
	u, err := s.GetActive(ctx, userID)
	if err != nil {
		return auth.UserContext{}, err
	}
	return auth.UserContext{
		UserID:   u.ID.Hex(),
		RoleName: u.Role,
		Email:    u.Email,
		Name:     u.FullName(),
		Schedule: u.WeeklySchedule,
	}, nil
}

// Update applies the non-nil fields of in to an active account.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	u, err := s.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return nil, ErrMissingFields
		}
		if email != u.Email {
			other, err := s.store.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, ErrEmailTaken
			}
		}
		u.Email = email
	}
	if in.Role != nil {
		if !auth.ValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	applyScheduleFlags(&u.WeeklySchedule, in)

	if err := s.store.Replace(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.String("user_id", u.ID.Hex()))
	return u, nil
}

func applyScheduleFlags(schedule *workday.WeeklySchedule, in UpdateInput) {
	flags := []struct {
		value *bool
		field *bool
	}{
		{in.WorksOnMonday, &schedule.Monday},
		{in.WorksOnTuesday, &schedule.Tuesday},
		{in.WorksOnWednesday, &schedule.Wednesday},
		{in.WorksOnThursday, &schedule.Thursday},
		{in.WorksOnFriday, &schedule.Friday},
		{in.WorksOnSaturday, &schedule.Saturday},
		{in.WorksOnSunday, &schedule.Sunday},
	}
	for _, f := range flags {
		if f.value != nil {
			*f.field = *f.value
		}
	}
}

// Deactivate soft-deletes an account. Already inactive accounts are
// accepted so the call is repeatable.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	if err := s.store.Replace(ctx, u); err != nil {
		return err
	}
	s.log.Info("user deactivated", zap.String("user_id", u.ID.Hex()))
	return nil
}

// ResetPassword sets an active account's password to the configured default.
func (s *Service) ResetPassword(ctx context.Context, id string) (*User, error) {
	u, err := s.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(s.resetPassword)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	if err := s.store.Replace(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user password reset", zap.String("user_id", u.ID.Hex()))
	return u, nil
}

// EnsureAdmin creates an admin account for email, or promotes and
// reactivates the existing one. The password is only set on creation.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) (*User, bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, false, ErrMissingFields
	}
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role == auth.RoleAdmin && existing.IsActive {
			return existing, false, nil
		}
		existing.Role = auth.RoleAdmin
		existing.IsActive = true
		if err := s.store.Replace(ctx, existing); err != nil {
			return nil, false, err
		}
		s.log.Info("user promoted to admin", zap.String("user_id", existing.ID.Hex()))
		return existing, false, nil
	}

	if firstName == "" {
		firstName = "Admin"
	}
	if lastName == "" {
		lastName = "User"
	}
	admin := auth.UserContext{RoleName: auth.RoleAdmin}
	u, err := s.Register(ctx, RegisterInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Role:      auth.RoleAdmin,
	}, &admin)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *Service) find(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
