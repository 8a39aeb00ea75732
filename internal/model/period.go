package model

import (
	"time"

	"github.com/google/uuid"
)

// PeriodLock blocks every financial mutation dated on or before LockedUntil.
// At most one lock is active at a time; archiving a period installs a new one
// at the period's end date.
type PeriodLock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LockedUntil time.Time `gorm:"not null"`
	Active      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
}

const (
	CycleOpen   = "open"
	CycleClosed = "closed"
)

// DayCycle is one open-to-close operating session of the business.
// Status: "open" | "closed". Starting requires no existing open cycle;
// closing requires zero active customer sessions.
type DayCycle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status    string    `gorm:"type:varchar(10);not null;default:'open'"`
	StartedAt time.Time `gorm:"not null"`
	ClosedAt  *time.Time
	CreatedAt time.Time
}
