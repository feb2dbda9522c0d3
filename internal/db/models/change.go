package models

import "time"

// Change is one journal entry. Entries are append only; nothing in the
// application updates or deletes a row once written.
type Change struct {
	ID          string `gorm:"primaryKey"`
	ZoneOrigin  string `gorm:"index"`
	ChangeType  string
	Payload     []byte
	SubmittedAt time.Time
}
