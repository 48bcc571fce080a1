package model

import (
	"time"
)

// Cron job statuses
const (
	CronJobStatusRunning   = "running"
	CronJobStatusCompleted = "completed"
	CronJobStatusFailed    = "failed"
)

// CronJobLog records a single run of a scheduled job
type CronJobLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	JobName     string     `gorm:"type:varchar(100);not null;index" json:"jobName"`
	Status      string     `gorm:"type:varchar(20);not null" json:"status"` // running, completed, failed
	Message     string     `gorm:"type:text" json:"message"`
	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}
