package models

import (
	"pms/src/types"
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID             uint                    `gorm:"primarykey" json:"id"`
	Ref            uuid.UUID               `gorm:"type:uuid;uniqueIndex" json:"ref,omitempty"`
	PropertyTypeID uint                    `json:"property_type_id,omitempty"`
	UnitCount      uint                    `json:"unit_count,omitempty"`
	CheckIn        time.Time               `json:"check_in,omitempty"`
	CheckOut       time.Time               `json:"check_out,omitempty"`
	Adults         uint                    `json:"adults,omitempty"`
	Children       uint                    `json:"children,omitempty"`
	RoomCharge     float64                 `json:"room_charge,omitempty"`
	Taxes          float64                 `json:"taxes,omitempty"`
	ExtraCharge    float64                 `json:"extra_charge,omitempty"`
	Total          float64                 `json:"total,omitempty"`
	Status         types.ReservationStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	PaymentToken   *string                 `json:"payment_token,omitempty"`
	UserID         uint                    `json:"user_id,omitempty"`

	PropertyType *PropertyType `json:"property_type,omitempty"`
	User         *User         `json:"user,omitempty"`
	Stays        []*StayRecord `gorm:"foreignKey:ReservationRef;references:Ref" json:"stays,omitempty"`

	types.Timestamps
}
