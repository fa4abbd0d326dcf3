package models

import "pms/src/types"

type PropertyType struct {
	ID                 uint               `gorm:"primarykey" json:"id"`
	Name               string             `json:"name,omitempty"`
	Slug               string             `gorm:"index" json:"slug,omitempty"`
	Kind               types.PropertyKind `gorm:"default:'room'" json:"kind,omitempty"`
	BaseRate           float64            `json:"base_rate,omitempty"`
	TaxPercent         float64            `json:"tax_percent,omitempty"`
	ExtraGuestRate     float64            `json:"extra_guest_rate,omitempty"`
	WeekendHikePercent float64            `json:"weekend_hike_percent,omitempty"`
	WeekendDays        types.JSONBArray   `gorm:"type:jsonb" json:"weekend_days,omitempty"`
	Capacity           uint               `json:"capacity,omitempty"`

	Units []*Unit `json:"units,omitempty"`

	types.Timestamps
}
