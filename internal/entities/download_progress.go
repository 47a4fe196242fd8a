package entities

import (
	"time"
)

type DownloadKind string

const (
	DownloadKindTranslation   DownloadKind = "translation"
	DownloadKindStrongNumbers DownloadKind = "strong_numbers"
)

type DownloadStatus string

const (
	DownloadStatusPending    DownloadStatus = "pending"
	DownloadStatusRunning    DownloadStatus = "running"
	DownloadStatusInstalling DownloadStatus = "installing"
	DownloadStatusCompleted  DownloadStatus = "completed"
	DownloadStatusFailed     DownloadStatus = "failed"
)

// DownloadProgress tracks one background download job.
// Progress runs from 0 to 100; 100 means the payload is being installed.
type DownloadProgress struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	JobID       string         `gorm:"size:36;uniqueIndex" json:"job_id"`
	Kind        DownloadKind   `gorm:"size:32;index" json:"kind"`
	Target      string         `gorm:"size:64" json:"target,omitempty"`
	Status      DownloadStatus `gorm:"size:20" json:"status"`
	Progress    int            `json:"progress"`
	Error       string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func (DownloadProgress) TableName() string {
	return "download_progress"
}

func (p DownloadProgress) IsFinished() bool {
	return p.Status == DownloadStatusCompleted || p.Status == DownloadStatusFailed
}
