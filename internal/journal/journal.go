// Package journal records every zone mutation as an append only entry
// addressable by id. Entries are written at mutation time and read back
// by the change status endpoint; nothing ever updates or removes one.
package journal

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nricciar/em-dns-manager/internal/db/models"
	"github.com/nricciar/em-dns-manager/internal/keygen"
)

// ErrChangeNotFound is returned when no entry carries the requested id.
var ErrChangeNotFound = errors.New("change not found")

type Journal struct {
	db *gorm.DB
}

// Open opens or creates the journal database at the given path and
// migrates its schema.
func Open(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal database")
	}

	if err := db.AutoMigrate(&models.Change{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate journal schema")
	}

	return &Journal{db: db}, nil
}

// Record appends an entry and returns its generated id.
func (j *Journal) Record(zoneOrigin, changeType string, payload []byte) (*models.Change, error) {
	change := models.Change{
		ID:          keygen.New(),
		ZoneOrigin:  zoneOrigin,
		ChangeType:  changeType,
		Payload:     payload,
		SubmittedAt: time.Now().UTC(),
	}

	if err := j.db.Create(&change).Error; err != nil {
		return nil, errors.Wrap(err, "failed to record change")
	}

	return &change, nil
}

// Get retrieves the entry with exactly the given id.
func (j *Journal) Get(id string) (*models.Change, error) {
	var change models.Change

	result := j.db.Where("id = ?", id).First(&change)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChangeNotFound
		}

		return nil, errors.Wrap(result.Error, "failed to read change")
	}

	return &change, nil
}
