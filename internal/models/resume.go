package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

const DefaultUserID = "default_user"

type Resume struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string         `gorm:"type:text;index" json:"user_id"`
	FileName     string         `gorm:"type:text" json:"file_name"`
	ObjectKey    string         `gorm:"type:text" json:"-"`
	MimeType     string         `gorm:"type:text" json:"mime_type"`
	Status       AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	TextContent  string         `gorm:"type:text" json:"text_content,omitempty"`
	Keywords     []string       `gorm:"type:jsonb;serializer:json" json:"keywords"`
	Analysis     *Analysis      `gorm:"type:jsonb;serializer:json" json:"analysis,omitempty"`
	JDComparison *MatchResult   `gorm:"type:jsonb;serializer:json" json:"jd_comparison,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}
