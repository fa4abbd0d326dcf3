package boot

import (
	"log"
	"pms/src/db"
	"pms/src/lib"
	"pms/src/models"
	"pms/src/utils"
	"time"
)

func InitDb() error {
	db := db.GetDb()
	err := db.AutoMigrate(
		&models.User{},
		&models.PropertyType{},
		&models.Unit{},
		&models.StayRecord{},
		&models.Reservation{},
	)
	if err != nil {
		log.Printf("Migration error: %s\n", err.Error())
		return err
	}
	log.Println("Migration complete")
	return nil
}

// InitScheduler starts the background scheduler and registers the hourly
// housekeeping sweep.
func InitScheduler() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	id, err := lib.CreateCronJob(utils.SweepStaleCleanups, time.Hour)
	if err != nil {
		log.Printf("Error registering housekeeping sweep: %s\n", err.Error())
		return err
	}
	log.Printf("Registered housekeeping sweep with job %s\n", *id)
	sched.Start()
	return nil
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %s\n", err.Error())
	}
}
