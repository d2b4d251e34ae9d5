package models

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "open"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
	MaintenanceClosed     MaintenanceStatus = "closed"
)

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityNormal MaintenancePriority = "normal"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

type MaintenanceCategory string

const (
	CategoryPlumbing   MaintenanceCategory = "plumbing"
	CategoryElectrical MaintenanceCategory = "electrical"
	CategoryHVAC       MaintenanceCategory = "hvac"
	CategoryAppliances MaintenanceCategory = "appliances"
	CategoryCleaning   MaintenanceCategory = "cleaning"
	CategoryPainting   MaintenanceCategory = "painting"
	CategoryFlooring   MaintenanceCategory = "flooring"
	CategoryWindows    MaintenanceCategory = "windows"
	CategoryDoors      MaintenanceCategory = "doors"
	CategoryOther      MaintenanceCategory = "other"
)

type MaintenanceRequest struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	UnitID        uuid.UUID           `json:"unit_id" db:"unit_id"`
	ReportedBy    uuid.UUID           `json:"reported_by" db:"reported_by"`
	AssignedTo    *uuid.UUID          `json:"assigned_to" db:"assigned_to"`
	Category      MaintenanceCategory `json:"category" db:"category"`
	Priority      MaintenancePriority `json:"priority" db:"priority"`
	Status        MaintenanceStatus   `json:"status" db:"status"`
	Title         string              `json:"title" db:"title"`
	Description   string              `json:"description" db:"description"`
	ReportedAt    time.Time           `json:"reported_at" db:"reported_at"`
	AssignedAt    *time.Time          `json:"assigned_at" db:"assigned_at"`
	ResolvedAt    *time.Time          `json:"resolved_at" db:"resolved_at"`
	ClosedAt      *time.Time          `json:"closed_at" db:"closed_at"`
	EstimatedCost *string             `json:"estimated_cost" db:"estimated_cost"`
	ActualCost    *string             `json:"actual_cost" db:"actual_cost"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

// IsOverdue: urgent requests after 24 hours, everything else after 7 days.
func (m *MaintenanceRequest) IsOverdue(now time.Time) bool {
	if m.Status == MaintenanceResolved || m.Status == MaintenanceClosed {
		return false
	}
	threshold := 7 * 24 * time.Hour
	if m.Priority == PriorityUrgent {
		threshold = 24 * time.Hour
	}
	return now.Sub(m.ReportedAt) > threshold
}
