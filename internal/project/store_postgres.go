package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"conforma/internal/evaluation"
	id "conforma/pkg/domain"
	"conforma/pkg/platform/sentinel"
	"conforma/pkg/platform/tx"
)

// PostgresStore persists projects in PostgreSQL. Evaluations live in a JSONB
// document on the project row, keyed by requirement id, per the storage
// layout: the evaluation is the unit that is replaced wholesale on save.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed project store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *Project) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, name, certification_id, evaluations, created_at, updated_at)
		VALUES ($1, $2, $3, '{}'::jsonb, $4, $5)
	`, uuid.UUID(p.ID), p.Name, string(p.CertificationID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, projectID id.ProjectID) (*Project, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, certification_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`, uuid.UUID(projectID))
	return scanProject(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Project, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, certification_id, created_at, updated_at
		FROM projects
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProjectRows(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) (*evaluation.Evaluation, error) {
	q := tx.Resolve(ctx, s.db)
	var raw []byte
	err := q.QueryRowContext(ctx, `
		SELECT evaluations -> $2
		FROM projects
		WHERE id = $1
	`, uuid.UUID(projectID), string(requirementID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var eval evaluation.Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation: %w", err)
	}
	return &eval, nil
}

func (s *PostgresStore) Evaluations(ctx context.Context, projectID id.ProjectID) (map[string]evaluation.Evaluation, error) {
	q := tx.Resolve(ctx, s.db)
	var raw []byte
	err := q.QueryRowContext(ctx, `
		SELECT evaluations
		FROM projects
		WHERE id = $1
	`, uuid.UUID(projectID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get evaluations document: %w", err)
	}
	evaluations := make(map[string]evaluation.Evaluation)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &evaluations); err != nil {
			return nil, fmt.Errorf("unmarshal evaluations document: %w", err)
		}
	}
	return evaluations, nil
}

func (s *PostgresStore) SaveEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID, eval evaluation.Evaluation, now time.Time) error {
	raw, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	q := tx.Resolve(ctx, s.db)
	result, err := q.ExecContext(ctx, `
		UPDATE projects
		SET evaluations = jsonb_set(evaluations, ARRAY[$2], $3::jsonb, true),
		    updated_at = $4
		WHERE id = $1
	`, uuid.UUID(projectID), string(requirementID), raw, now)
	if err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save evaluation rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProject(row *sql.Row) (*Project, error) {
	var p Project
	var projectID uuid.UUID
	var certID string
	err := row.Scan(&projectID, &p.Name, &certID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	p.ID = id.ProjectID(projectID)
	p.CertificationID = id.CertificationID(certID)
	return &p, nil
}

func scanProjectRows(rows *sql.Rows) (*Project, error) {
	var p Project
	var projectID uuid.UUID
	var certID string
	if err := rows.Scan(&projectID, &p.Name, &certID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.ID = id.ProjectID(projectID)
	p.CertificationID = id.CertificationID(certID)
	return &p, nil
}
