package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"pms/src/db"
	"pms/src/lib"
	"pms/src/models"
	"pms/src/types"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HousekeepingWindow bounds how long a cleanup flag may block a unit before
// the sweep releases it automatically.
const HousekeepingWindow = 4 * time.Hour

func CreatePropertyType(params *types.CreatePropertyTypeRequestBody) (uint, error) {
	kind := types.PropertyKind(params.Kind)
	if kind == "" {
		kind = types.PROPERTY_ROOM
	}
	if kind != types.PROPERTY_ROOM && kind != types.PROPERTY_HALL {
		return 0, fmt.Errorf("unknown property kind [%s]", params.Kind)
	}
	weekendDays := types.JSONBArray{}
	for _, d := range params.WeekendDays {
		weekendDays = append(weekendDays, d)
	}
	propertyType := models.PropertyType{
		Name:               params.Name,
		Slug:               slug.Make(params.Name),
		Kind:               kind,
		BaseRate:           params.BaseRate,
		TaxPercent:         params.TaxPercent,
		ExtraGuestRate:     params.ExtraGuestRate,
		WeekendHikePercent: params.WeekendHikePercent,
		WeekendDays:        weekendDays,
		Capacity:           params.Capacity,
	}

	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&propertyType).Error; err != nil {
			return err
		}
		for _, number := range params.UnitNumbers {
			unit := models.Unit{PropertyTypeID: propertyType.ID, Number: number}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Error: ", err.Error())
		return 0, err
	}
	return propertyType.ID, nil
}

func AddUnits(propertyTypeID uint, numbers []string) ([]uint, error) {
	db := db.GetDb()
	ids := []uint{}
	err := db.Transaction(func(tx *gorm.DB) error {
		var propertyType models.PropertyType
		if err := tx.
			Where(&models.PropertyType{ID: propertyTypeID}).
			First(&propertyType).
			Error; err != nil {
			return fmt.Errorf("property type %d does not exist", propertyTypeID)
		}
		for _, number := range numbers {
			unit := models.Unit{PropertyTypeID: propertyTypeID, Number: number}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
			ids = append(ids, unit.ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error adding units: %s\n", err.Error())
		return nil, err
	}
	return ids, nil
}

func GetPropertyType(id uint) (*models.PropertyType, error) {
	var propertyType models.PropertyType
	db := db.GetDb()
	if err := db.
		Model(&models.PropertyType{}).
		Where(&models.PropertyType{ID: id}).
		Preload("Units").
		First(&propertyType).
		Error; err != nil {
		err := errors.New("property type not found")
		return nil, err
	}
	return &propertyType, nil
}

// StartMaintenance appends an under_maintenance record. With no start time
// the unit goes unconditionally out of service.
func StartMaintenance(unitID uint, startAt *time.Time, reason string) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		if err := tx.Where(&models.Unit{ID: unitID}).First(&unit).Error; err != nil {
			return err
		}
		stay := models.StayRecord{
			UnitID:  unitID,
			StartAt: startAt,
			Status:  types.STAY_UNDER_MAINTENANCE,
			Note:    reason,
		}
		return tx.Create(&stay).Error
	})
}

// CompleteMaintenance closes the open maintenance record so the unit can take
// bookings again.
func CompleteMaintenance(unitID uint) error {
	now := time.Now()
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.StayRecord{}).
			Where(&models.StayRecord{UnitID: unitID, Status: types.STAY_UNDER_MAINTENANCE}).
			Updates(&models.StayRecord{Status: types.STAY_CHECKED_OUT, EndAt: &now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("no maintenance record found for unit")
		}
		return nil
	})
}

// CheckInStay moves a booked stay forward. Transitions only ever run forward:
// booked -> checked_in -> checked_out.
func CheckInStay(stayID uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.StayRecord{}).
			Where(&models.StayRecord{ID: stayID, Status: types.STAY_BOOKED}).
			Update("status", types.STAY_CHECKED_IN)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("stay is not in a bookable state for check-in")
		}
		return nil
	})
}

// CheckOutStay records the checkout instant and flags the unit for
// housekeeping. The cleanup flag is released by ConfirmCleanup or, failing
// that, by the scheduled sweep after HousekeepingWindow.
func CheckOutStay(stayID uint) error {
	now := time.Now()
	db := db.GetDb()
	var unitID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var stay models.StayRecord
		if err := tx.
			Where(&models.StayRecord{ID: stayID, Status: types.STAY_CHECKED_IN}).
			First(&stay).
			Error; err != nil {
			return errors.New("stay is not checked in")
		}
		if err := tx.
			Model(&models.StayRecord{}).
			Where(&models.StayRecord{ID: stayID}).
			Updates(&models.StayRecord{Status: types.STAY_CHECKED_OUT, EndAt: &now}).
			Error; err != nil {
			return err
		}
		cleanup := models.StayRecord{
			UnitID:  stay.UnitID,
			StartAt: &now,
			Status:  types.STAY_PENDING_CLEANUP,
		}
		if err := tx.Create(&cleanup).Error; err != nil {
			return err
		}
		unitID = stay.UnitID
		return nil
	})
	if err != nil {
		return err
	}

	// Auto-release the cleanup flag if housekeeping never confirms.
	go func() {
		releaseAt := now.Add(HousekeepingWindow)
		id, err := lib.CreateOneTimeJob(releaseAt, func(uid uint) {
			if err := ConfirmCleanup(uid); err != nil {
				log.Printf("Housekeeping auto-release skipped for unit %d: %s\n", uid, err.Error())
			}
		}, unitID)
		if err != nil {
			log.Printf("Error scheduling cleanup release for unit %d: %s\n", unitID, err.Error())
			return
		}
		log.Printf("Scheduled cleanup release for unit %d with job %s\n", unitID, *id)
	}()
	return nil
}

// ConfirmCleanup resolves the pending cleanup flag, recording when
// housekeeping finished. A resolved record no longer blocks availability.
func ConfirmCleanup(unitID uint) error {
	now := time.Now()
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.StayRecord{}).
			Where(&models.StayRecord{UnitID: unitID, Status: types.STAY_PENDING_CLEANUP}).
			Updates(&models.StayRecord{Status: types.STAY_CHECKED_OUT, EndAt: &now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("no pending cleanup found for unit")
		}
		return nil
	})
}

// CancelReservation releases every stay held by the reservation. Downstream
// of the allocation core: the records are superseded, never deleted.
func CancelReservation(id uint) error {
	now := time.Now()
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.
			Where(&models.Reservation{ID: id, Status: types.RESERVATION_CONFIRMED}).
			First(&reservation).
			Error; err != nil {
			return errors.New("reservation not found")
		}
		if err := tx.
			Model(&models.Reservation{}).
			Where(&models.Reservation{ID: id}).
			Update("status", types.RESERVATION_CANCELED).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.StayRecord{}).
			Where(&models.StayRecord{ReservationRef: &reservation.Ref, Status: types.STAY_BOOKED}).
			Updates(&models.StayRecord{Status: types.STAY_CHECKED_OUT, EndAt: &now}).
			Error; err != nil {
			return err
		}
		return nil
	})
}

// SweepStaleCleanups releases cleanup flags older than the housekeeping
// window. Runs on a schedule from boot.
func SweepStaleCleanups() {
	cutoff := time.Now().Add(-HousekeepingWindow)
	now := time.Now()
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.StayRecord{}).
			Where("status = ?", types.STAY_PENDING_CLEANUP).
			Where("start_at < ?", cutoff).
			Updates(&models.StayRecord{Status: types.STAY_CHECKED_OUT, EndAt: &now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("Released %d stale cleanup flag(s)\n", result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error while sweeping stale cleanups: %s\n", err.Error())
	}
}

func SendReservationConfirmedEmail(to string, ref uuid.UUID, total float64, checkIn, checkOut time.Time) {
	from := os.Getenv("MAIL_FROM")
	body := fmt.Sprintf(
		"Your reservation %s is confirmed.\nStay: %s to %s\nTotal due: %.2f\n",
		ref.String(),
		checkIn.Format("2006-01-02 15:04"),
		checkOut.Format("2006-01-02 15:04"),
		total,
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: "Reservations",
		To:       []string{to},
		Subject:  fmt.Sprintf("Reservation confirmed: %s", ref.String()),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending confirmation email for [%s]: %s\n", ref.String(), err.Error())
	}
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, errors.New("ciphertext is shorter than the nonce")
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
