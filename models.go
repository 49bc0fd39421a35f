package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillsync/internal/database"
	"github.com/muhammadolammi/skillsync/internal/pipeline"
	"github.com/sirupsen/logrus"
)

// SessionStore is the part of *database.Queries the worker uses.
type SessionStore interface {
	SetSessionStatus(ctx context.Context, arg database.SetSessionStatusParams) error
	ListSessionResumes(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpsertGapReports(ctx context.Context, arg database.UpsertGapReportsParams) error
}

// ReportReader is the part of *database.Queries the report command uses.
type ReportReader interface {
	GetAnalysisSession(ctx context.Context, id uuid.UUID) (database.AnalysisSession, error)
	GetGapReports(ctx context.Context, sessionID uuid.UUID) (database.GapReport, error)
}

type ResumeStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type Analyzer interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Report, error)
}

type UpdatePublisher interface {
	PublishSessionUpdate(sessionID uuid.UUID, update SessionUpdate) error
}

type WorkerConfig struct {
	DB          SessionStore
	Resumes     ResumeStore
	Analyzer    Analyzer
	Publisher   UpdatePublisher
	RabbitMQURL string
	Logger      *logrus.Logger

	// attempts and backoff for downloads and database writes
	RetryAttempts int
	RetryBackoff  time.Duration
}

// Session is the message published on the sessions queue.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}

type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ResumeReport is one entry of a session's persisted results. An error entry
// never carries a partial report.
type ResumeReport struct {
	ResumeID         uuid.UUID        `json:"resume_id"`
	OriginalFilename string           `json:"original_filename"`
	Report           *pipeline.Report `json:"report,omitempty"`
	IsErrorResult    bool             `json:"is_error_result"`
	Error            string           `json:"error,omitempty"`
}

type SessionReports struct {
	SessionID uuid.UUID      `json:"session_id"`
	Results   []ResumeReport `json:"results"`
}
