package database

import (
	"context"

	"github.com/google/uuid"
)

const setSessionStatus = `-- name: SetSessionStatus :exec
UPDATE analysis_sessions
SET status = $1
WHERE id = $2
`

type SetSessionStatusParams struct {
	Status string
	ID     uuid.UUID
}

func (q *Queries) SetSessionStatus(ctx context.Context, arg SetSessionStatusParams) error {
	_, err := q.db.ExecContext(ctx, setSessionStatus, arg.Status, arg.ID)
	return err
}

const getAnalysisSession = `-- name: GetAnalysisSession :one
SELECT id, name, user_id, status, job_title, job_description, created_at
FROM analysis_sessions
WHERE id = $1
`

func (q *Queries) GetAnalysisSession(ctx context.Context, id uuid.UUID) (AnalysisSession, error) {
	row := q.db.QueryRowContext(ctx, getAnalysisSession, id)
	var i AnalysisSession
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.UserID,
		&i.Status,
		&i.JobTitle,
		&i.JobDescription,
		&i.CreatedAt,
	)
	return i, err
}
