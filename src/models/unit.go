package models

import "pms/src/types"

type Unit struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	PropertyTypeID uint   `gorm:"uniqueIndex:idx_unit_number" json:"property_type_id,omitempty"`
	Number         string `gorm:"uniqueIndex:idx_unit_number" json:"number,omitempty"`

	PropertyType *PropertyType `json:"property_type,omitempty"`
	Stays        []*StayRecord `json:"stays,omitempty"`

	types.Timestamps
}
