package leavetype

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType is a category of leave with its yearly allowance in days.
type LeaveType struct {
	ID               string
	Name             string
	DefaultAllowance decimal.Decimal
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateInput struct {
	Name             string
	DefaultAllowance *decimal.Decimal
	Description      string
}

type UpdateInput struct {
	Name             *string
	DefaultAllowance *decimal.Decimal
	Description      *string
}
