package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusPending    = "pending"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

type AnalysisSession struct {
	ID             uuid.UUID
	Name           string
	UserID         uuid.UUID
	Status         string
	JobTitle       string
	JobDescription string
	CreatedAt      time.Time
}

type Resume struct {
	ID               uuid.UUID
	SessionID        uuid.UUID
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	ObjectKey        string
	CreatedAt        time.Time
}

type GapReport struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Reports   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
