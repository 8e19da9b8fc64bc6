package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-risk-service/internal/domain"
)

// SubmissionStore keeps assessed submissions as JSONB documents. Indexed
// columns mirror the fields used for filtering and ordering.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) Insert(ctx context.Context, result domain.SubmissionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_submissions (id, user_id, status, submitted_at, data)
		VALUES ($1, $2, $3, $4, $5)`,
		result.ID, result.UserID, string(result.Status), result.SubmittedAt, raw)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, id string) (domain.SubmissionResult, error) {
	row := s.pool.QueryRow(ctx, `SELECT data FROM quiz_submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

// Update reads, patches and rewrites the document under a row lock.
func (s *SubmissionStore) Update(ctx context.Context, id string, patch domain.SubmissionPatch) (domain.SubmissionResult, error) {
	var updated domain.SubmissionResult
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		current, err := scanSubmission(tx.QueryRow(ctx, `SELECT data FROM quiz_submissions WHERE id=$1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		patch.Apply(&current)

		raw, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("marshal submission: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE quiz_submissions SET status=$2, data=$3 WHERE id=$1`,
			id, string(current.Status), raw); err != nil {
			return fmt.Errorf("update submission: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	return updated, nil
}

func (s *SubmissionStore) List(ctx context.Context) ([]domain.SubmissionResult, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quiz_submissions ORDER BY submitted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return collectSubmissions(rows)
}

func (s *SubmissionStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SubmissionResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT data FROM quiz_submissions
		WHERE user_id=$1
		ORDER BY submitted_at DESC, id
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user submissions: %w", err)
	}
	return collectSubmissions(rows)
}

func scanSubmission(row pgx.Row) (domain.SubmissionResult, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubmissionResult{}, domain.ErrSubmissionNotFound
		}
		return domain.SubmissionResult{}, fmt.Errorf("load submission: %w", err)
	}
	var result domain.SubmissionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("unmarshal submission: %w", err)
	}
	return result, nil
}

func collectSubmissions(rows pgx.Rows) ([]domain.SubmissionResult, error) {
	defer rows.Close()
	out := []domain.SubmissionResult{}
	for rows.Next() {
		result, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
