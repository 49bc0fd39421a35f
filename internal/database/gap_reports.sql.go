package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const upsertGapReports = `-- name: UpsertGapReports :exec
INSERT INTO gap_reports (session_id, reports)
VALUES ($1, $2)
ON CONFLICT (session_id)
DO UPDATE SET
    reports = EXCLUDED.reports,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertGapReportsParams struct {
	SessionID uuid.UUID
	Reports   json.RawMessage
}

func (q *Queries) UpsertGapReports(ctx context.Context, arg UpsertGapReportsParams) error {
	_, err := q.db.ExecContext(ctx, upsertGapReports, arg.SessionID, arg.Reports)
	return err
}

const getGapReports = `-- name: GetGapReports :one
SELECT id, session_id, reports, created_at, updated_at
FROM gap_reports
WHERE session_id = $1
`

func (q *Queries) GetGapReports(ctx context.Context, sessionID uuid.UUID) (GapReport, error) {
	row := q.db.QueryRowContext(ctx, getGapReports, sessionID)
	var i GapReport
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.Reports,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
