package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ActionUserRegister      = "user.register"
	ActionUserUpdate        = "user.update"
	ActionUserDeactivate    = "user.deactivate"
	ActionUserResetPassword = "user.reset_password"
	ActionLeaveTypeCreate   = "leave_type.create"
	ActionLeaveTypeUpdate   = "leave_type.update"
	ActionLeaveTypeDelete   = "leave_type.delete"
	ActionLeaveSubmit       = "leave.submit"
)

const (
	EntityUser         = "user"
	EntityLeaveType    = "leave_type"
	EntityLeaveRequest = "leave_request"
)

type Event struct {
	ID         bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	ActorID    string            `bson:"actor_id" json:"actorId"`
	Action     string            `bson:"action" json:"action"`
	EntityType string            `bson:"entity_type" json:"entityType"`
	EntityID   string            `bson:"entity_id" json:"entityId"`
	RequestID  string            `bson:"request_id" json:"requestId"`
	IP         string            `bson:"ip" json:"ip"`
	Details    map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt  time.Time         `bson:"created_at" json:"createdAt"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorID    string
}
