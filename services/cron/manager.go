package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/services/geocode"
)

// Manager schedules the background maintenance jobs
type Manager struct {
	cron     *cron.Cron
	db       *gorm.DB
	geocoder *geocode.Client
}

// NewManager creates a new cron manager
func NewManager(db *gorm.DB, geocoder *geocode.Client) *Manager {
	return &Manager{
		cron:     cron.New(),
		db:       db,
		geocoder: geocoder,
	}
}

// Start registers and starts all cron jobs
func (m *Manager) Start() error {
	log.Println("Starting cron jobs...")

	// Hourly: retry geocoding for colleges that still miss coordinates
	if _, err := m.cron.AddFunc("@hourly", func() {
		m.runJob("geocode_backfill", m.BackfillCollegeCoordinates)
	}); err != nil {
		return err
	}

	// Daily: prune old cron job logs
	if _, err := m.cron.AddFunc("@daily", func() {
		m.runJob("prune_cron_job_logs", m.PruneCronJobLogs)
	}); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (m *Manager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// runJob wraps a job with a CronJobLog row recording its outcome
func (m *Manager) runJob(name string, job func() (string, error)) {
	entry := model.CronJobLog{
		JobName:   name,
		Status:    model.CronJobStatusRunning,
		StartedAt: time.Now(),
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("cron: failed to record start of %s: %v", name, err)
	}

	message, err := job()

	now := time.Now()
	entry.CompletedAt = &now
	entry.Message = message
	entry.Status = model.CronJobStatusCompleted
	if err != nil {
		entry.Status = model.CronJobStatusFailed
		entry.Message = err.Error()
		log.Printf("cron: job %s failed: %v", name, err)
	}

	if entry.ID != 0 {
		if err := m.db.Save(&entry).Error; err != nil {
			log.Printf("cron: failed to record result of %s: %v", name, err)
		}
	}
}
