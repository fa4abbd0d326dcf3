package models

import "pms/src/types"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Email string `gorm:"uniqueIndex" json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `gorm:"default:'staff'" json:"role,omitempty"`

	Reservations []*Reservation `json:"reservations,omitempty"`

	types.Timestamps
}
