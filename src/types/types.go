package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type PropertyKind string

const (
	PROPERTY_ROOM PropertyKind = "room"
	PROPERTY_HALL PropertyKind = "hall"
)

type StayStatus string

const (
	STAY_BOOKED            StayStatus = "booked"
	STAY_CHECKED_IN        StayStatus = "checked_in"
	STAY_CHECKED_OUT       StayStatus = "checked_out"
	STAY_PENDING_CLEANUP   StayStatus = "pending_cleanup"
	STAY_UNDER_MAINTENANCE StayStatus = "under_maintenance"
)

type ReservationStatus string

const (
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELED  ReservationStatus = "canceled"
)

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type CreatePropertyTypeRequestBody struct {
	Name               string   `json:"name" binding:"required"`
	Kind               string   `json:"kind,omitempty"`
	BaseRate           float64  `json:"base_rate" binding:"required,gt=0"`
	TaxPercent         float64  `json:"tax_percent" binding:"gte=0"`
	ExtraGuestRate     float64  `json:"extra_guest_rate" binding:"gte=0"`
	WeekendHikePercent float64  `json:"weekend_hike_percent" binding:"gte=0"`
	WeekendDays        []string `json:"weekend_days,omitempty"`
	Capacity           uint     `json:"capacity" binding:"required,gt=0"`
	UnitNumbers        []string `json:"unit_numbers,omitempty"`
}

type AddUnitsRequestBody struct {
	Numbers []string `json:"numbers" binding:"required,min=1"`
}

type CreateReservationRequestBody struct {
	PropertyTypeID uint   `json:"property_type" binding:"required"`
	CheckIn        string `json:"check_in" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	CheckOut       string `json:"check_out" binding:"required,gtdate=CheckIn" time_format:"2006-01-02 15:04:05 -07:00"`
	UnitCount      uint   `json:"unit_count" binding:"required,gt=0"`
	Adults         uint   `json:"adults" binding:"required,gt=0"`
	Children       uint   `json:"children,omitempty"`
	PaymentToken   string `json:"payment_token,omitempty"`
}

type QuoteRequestBody struct {
	PropertyTypeID uint   `json:"property_type" binding:"required"`
	CheckIn        string `json:"check_in" binding:"required"`
	CheckOut       string `json:"check_out" binding:"required,gtdate=CheckIn"`
	UnitCount      uint   `json:"unit_count" binding:"required,gt=0"`
	Adults         uint   `json:"adults" binding:"required,gt=0"`
	Children       uint   `json:"children,omitempty"`
}

type AvailabilityQueryParams struct {
	CheckIn  string `form:"check_in" binding:"required,ltdate=CheckOut"`
	CheckOut string `form:"check_out" binding:"required"`
}

type MaintenanceRequestBody struct {
	StartAt *string `json:"start_at,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required"`
}

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type APIResponseUnit struct {
	ID     uint   `json:"id"`
	Number string `json:"number"`
}

type APIResponseAvailability struct {
	PropertyTypeID uint              `json:"property_type"`
	FreeCount      int               `json:"free_count"`
	Units          []APIResponseUnit `json:"units"`
}
