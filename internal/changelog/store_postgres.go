package changelog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "conforma/pkg/domain"
	"conforma/pkg/platform/tx"
)

// PostgresStore persists changelog entries in PostgreSQL. The table is
// append-only; the seq column breaks created_at ties so entries written in
// one save transaction keep a deterministic order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed changelog store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entries []Entry) error {
	q := tx.Resolve(ctx, s.db)
	const query = `
		INSERT INTO changelog_entries
			(id, project_id, requirement_id, actor_id, actor_display_name, field, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, entry := range entries {
		_, err := q.ExecContext(ctx, query,
			entry.ID,
			uuid.UUID(entry.ProjectID),
			string(entry.RequirementID),
			entry.ActorID,
			entry.ActorDisplayName,
			entry.Field,
			entry.OldValue,
			entry.NewValue,
			entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("append changelog entry: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID id.ProjectID, limit, offset int) ([]Entry, int, error) {
	q := tx.Resolve(ctx, s.db)

	var total int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM changelog_entries WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count changelog entries: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, requirement_id, actor_id, actor_display_name, field, old_value, new_value, created_at
		FROM changelog_entries
		WHERE project_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3
	`, uuid.UUID(projectID), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list changelog entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *PostgresStore) ListByRequirement(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) ([]Entry, error) {
	q := tx.Resolve(ctx, s.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, requirement_id, actor_id, actor_display_name, field, old_value, new_value, created_at
		FROM changelog_entries
		WHERE project_id = $1 AND requirement_id = $2
		ORDER BY created_at ASC, seq ASC
	`, uuid.UUID(projectID), string(requirementID))
	if err != nil {
		return nil, fmt.Errorf("list requirement changelog: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var projectID uuid.UUID
		var requirementID string
		if err := rows.Scan(
			&entry.ID,
			&projectID,
			&requirementID,
			&entry.ActorID,
			&entry.ActorDisplayName,
			&entry.Field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan changelog entry: %w", err)
		}
		entry.ProjectID = id.ProjectID(projectID)
		entry.RequirementID = id.RequirementID(requirementID)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changelog entries: %w", err)
	}
	return entries, nil
}
