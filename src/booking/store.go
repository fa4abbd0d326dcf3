package booking

import (
	"context"
	"errors"
	"log"
	"pms/src/db"
	"pms/src/models"
	"pms/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the storage collaborator boundary. Reads return unit snapshots with
// their stay records; Commit must append atomically per unit.
type Store interface {
	FetchPropertyType(ctx context.Context, id uint) (*models.PropertyType, error)
	FetchUnits(ctx context.Context, propertyTypeID uint) ([]*models.Unit, error)
	FetchUnit(ctx context.Context, unitID uint) (*models.Unit, error)
	Commit(ctx context.Context, reservation *models.Reservation, units []*models.Unit) error
}

// GormStore backs the engine with the shared gorm connection.
type GormStore struct{}

func NewStore() *GormStore {
	return &GormStore{}
}

func (s *GormStore) FetchPropertyType(ctx context.Context, id uint) (*models.PropertyType, error) {
	var pt models.PropertyType
	db := db.GetDb()
	if err := db.WithContext(ctx).
		Model(&models.PropertyType{}).
		Where(&models.PropertyType{ID: id}).
		First(&pt).
		Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *GormStore) FetchUnits(ctx context.Context, propertyTypeID uint) ([]*models.Unit, error) {
	var units []*models.Unit
	db := db.GetDb()
	if err := db.WithContext(ctx).
		Model(&models.Unit{}).
		Where(&models.Unit{PropertyTypeID: propertyTypeID}).
		Preload("Stays").
		Order("number asc").
		Find(&units).
		Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (s *GormStore) FetchUnit(ctx context.Context, unitID uint) (*models.Unit, error) {
	var unit models.Unit
	db := db.GetDb()
	if err := db.WithContext(ctx).
		Model(&models.Unit{}).
		Where(&models.Unit{ID: unitID}).
		Preload("Stays").
		First(&unit).
		Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// Commit persists the reservation and one booked StayRecord per allocated
// unit in a single transaction. The unit rows are locked FOR UPDATE and their
// stays re-checked under the lock, so a conflicting concurrent append loses
// the race here instead of double-booking.
func (s *GormStore) Commit(ctx context.Context, reservation *models.Reservation, units []*models.Unit) error {
	iv := Interval{Start: reservation.CheckIn, End: reservation.CheckOut}
	db := db.GetDb()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range units {
			var locked models.Unit
			if err := tx.
				Clauses(clause.Locking{
					Strength: "UPDATE",
					Table:    clause.Table{Name: clause.CurrentTable},
				}).
				Where(&models.Unit{ID: u.ID}).
				First(&locked).
				Error; err != nil {
				return err
			}
			var stays []*models.StayRecord
			if err := tx.
				Where(&models.StayRecord{UnitID: u.ID}).
				Find(&stays).
				Error; err != nil {
				return err
			}
			locked.Stays = stays
			if !IsUnitFree(&locked, iv) {
				log.Printf("Commit rejected: unit [%s] was taken by a concurrent writer\n", locked.Number)
				return ErrPersistenceConflict
			}
		}
		if err := tx.Create(reservation).Error; err != nil {
			return err
		}
		for _, u := range units {
			stay := models.StayRecord{
				UnitID:         u.ID,
				StartAt:        &reservation.CheckIn,
				EndAt:          &reservation.CheckOut,
				Status:         types.STAY_BOOKED,
				ReservationRef: &reservation.Ref,
			}
			if err := tx.Create(&stay).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistenceConflict) {
		log.Printf("Error committing reservation [%s]: %s\n", reservation.Ref.String(), err.Error())
	}
	return err
}
