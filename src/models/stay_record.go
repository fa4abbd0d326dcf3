package models

import (
	"pms/src/types"
	"time"

	"github.com/google/uuid"
)

// StayRecord is one interval of claim on a Unit. The list of StayRecords is
// the sole source of truth for a unit's occupancy; it grows by append on
// booking and is never rewritten in place.
type StayRecord struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	UnitID         uint             `gorm:"index" json:"unit_id,omitempty"`
	StartAt        *time.Time       `json:"start_at,omitempty"`
	EndAt          *time.Time       `json:"end_at,omitempty"`
	Status         types.StayStatus `gorm:"default:'booked'" json:"status,omitempty"`
	ReservationRef *uuid.UUID       `gorm:"type:uuid;index" json:"reservation_ref,omitempty"`
	Note           string           `json:"note,omitempty"`

	Unit *Unit `json:"unit,omitempty"`

	types.Timestamps
}
