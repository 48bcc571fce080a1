package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/services/geocode"
)

const (
	// backfillBatchSize caps how many colleges a single backfill run touches
	backfillBatchSize = 50
	// jobLogRetention is how long cron job log rows are kept
	jobLogRetention = 30 * 24 * time.Hour
)

// BackfillCollegeCoordinates retries geocoding for colleges whose creation
// predates the geocode requirement or whose coordinates were cleared.
func (m *Manager) BackfillCollegeCoordinates() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var colleges []model.College
	if err := m.db.
		Where("is_deleted = ? AND (latitude IS NULL OR longitude IS NULL)", false).
		Limit(backfillBatchSize).
		Find(&colleges).Error; err != nil {
		return "", err
	}

	resolved := 0
	for _, college := range colleges {
		address := fmt.Sprintf("%s, %s, %s, %s %s",
			college.Address, college.City, college.State, college.Country, college.PostalCode)

		located, err := m.geocoder.Lookup(ctx, address)
		if err != nil {
			if err == geocode.ErrNoResults {
				continue
			}
			return fmt.Sprintf("resolved %d of %d colleges", resolved, len(colleges)), err
		}

		college.Latitude = &located.Latitude
		college.Longitude = &located.Longitude
		college.GeocodeResult = datatypes.JSON(located.Raw)
		if err := m.db.Save(&college).Error; err != nil {
			return fmt.Sprintf("resolved %d of %d colleges", resolved, len(colleges)), err
		}
		resolved++
	}

	return fmt.Sprintf("resolved %d of %d colleges", resolved, len(colleges)), nil
}

// PruneCronJobLogs deletes job log rows older than the retention window
func (m *Manager) PruneCronJobLogs() (string, error) {
	cutoff := time.Now().Add(-jobLogRetention)

	result := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", result.Error
	}

	return fmt.Sprintf("pruned %d log rows", result.RowsAffected), nil
}
