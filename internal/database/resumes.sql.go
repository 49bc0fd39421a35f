package database

import (
	"context"

	"github.com/google/uuid"
)

const listSessionResumes = `-- name: ListSessionResumes :many
SELECT id, session_id, original_filename, mime, size_bytes, object_key, created_at
FROM resumes
WHERE session_id = $1
ORDER BY created_at
`

func (q *Queries) ListSessionResumes(ctx context.Context, sessionID uuid.UUID) ([]Resume, error) {
	rows, err := q.db.QueryContext(ctx, listSessionResumes, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Resume
	for rows.Next() {
		var i Resume
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.OriginalFilename,
			&i.Mime,
			&i.SizeBytes,
			&i.ObjectKey,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
