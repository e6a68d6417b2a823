package user

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"leavedesk/internal/domain/workday"
)

type LeaveBalance struct {
	LeaveTypeID bson.ObjectID `bson:"leave_type" json:"leaveType"`
	Days        float64       `bson:"days" json:"days"`
}

// User is an account in the directory. The weekly schedule is stored and
// serialized inline, so documents and JSON carry worksOnMonday..worksOnSunday
// next to the identity fields.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string        `bson:"first_name" json:"firstName"`
	LastName     string        `bson:"last_name" json:"lastName"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Role         string        `bson:"role" json:"role"`
	IsActive     bool          `bson:"is_active" json:"isActive"`

	workday.WeeklySchedule `bson:",inline"`

	LeaveBalance []LeaveBalance `bson:"leave_balance" json:"leaveBalance"`
	CreatedAt    time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updatedAt"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// UpdateInput carries an admin edit; nil fields are left unchanged.
type UpdateInput struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Role             *string
	Password         *string
	IsActive         *bool
	WorksOnMonday    *bool
	WorksOnTuesday   *bool
	WorksOnWednesday *bool
	WorksOnThursday  *bool
	WorksOnFriday    *bool
	WorksOnSaturday  *bool
	WorksOnSunday    *bool
}
