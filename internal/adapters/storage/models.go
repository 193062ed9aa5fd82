package storage

import "time"

// ArchivedEventModel is the GORM model for the history archive table
type ArchivedEventModel struct {
	ArchivedAt     time.Time `gorm:"not null"`
	Cwd            string    `gorm:"default:''"`
	DurationNanos  *int64    `gorm:"default:null"`
	EventID        string    `gorm:"primaryKey"`
	Kind           string    `gorm:"not null;index:idx_kind"`
	Message        string    `gorm:"default:''"`
	Project        string    `gorm:"default:'';index:idx_project"`
	SessionID      string    `gorm:"default:'';index:idx_session"`
	StopReason     string    `gorm:"default:''"`
	SummaryText    string    `gorm:"default:''"`
	Timestamp      time.Time `gorm:"not null;index:idx_timestamp"`
	TranscriptPath string    `gorm:"default:''"`
	UserPrompt     string    `gorm:"default:''"`
}

// TableName specifies the table name for GORM
func (ArchivedEventModel) TableName() string { return "archived_events" }
