package leave

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"leavedesk/internal/domain/workday"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type LeaveRequest struct {
	ID              bson.ObjectID      `bson:"_id,omitempty" json:"id"`
	UserID          bson.ObjectID      `bson:"user" json:"user"`
	LeaveTypeID     bson.ObjectID      `bson:"leave_type" json:"leaveType"`
	StartDate       time.Time          `bson:"start_date" json:"startDate"`
	EndDate         time.Time          `bson:"end_date" json:"endDate"`
	Reason          string             `bson:"reason" json:"reason"`
	Status          string             `bson:"status" json:"status"`
	LeaveDays       []workday.LeaveDay `bson:"leave_days" json:"leaveDays"`
	ApprovedBy      *bson.ObjectID     `bson:"approved_by" json:"approvedBy"`
	RejectionReason *string            `bson:"rejection_reason" json:"rejectionReason"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// WorkingDays is the number of leave days the request covers.
func (r LeaveRequest) WorkingDays() int {
	return len(r.LeaveDays)
}

type SubmitInput struct {
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
}

// PreviewInput is a submission without a reason; LeaveType is optional.
type PreviewInput struct {
	LeaveType string
	StartDate string
	EndDate   string
}

type Preview struct {
	StartDate    time.Time          `json:"startDate"`
	EndDate      time.Time          `json:"endDate"`
	CalendarDays int                `json:"calendarDays"`
	WorkingDays  int                `json:"workingDays"`
	LeaveDays    []workday.LeaveDay `json:"leaveDays"`
}
