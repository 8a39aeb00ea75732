package infra

import (
	"fmt"

	"timecafe/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema. gen_random_uuid() needs the pgcrypto extension on Postgres < 13.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Device{},
		&model.Product{},
		&model.ProductComponent{},
		&model.InventoryItem{},
		&model.StockMovement{},
		&model.Session{},
		&model.SessionOrder{},
		&model.SessionDeviceChange{},
		&model.Record{},
		&model.RecordSegment{},
		&model.RecordOrder{},
		&model.LedgerEntry{},
		&model.Expense{},
		&model.Purchase{},
		&model.Loan{},
		&model.Transfer{},
		&model.PartnerDebt{},
		&model.BankAccount{},
		&model.SavingPlan{},
		&model.PeriodLock{},
		&model.DayCycle{},
		&model.PeriodSnapshot{},
		&model.SnapshotPartnerRow{},
	)
}
