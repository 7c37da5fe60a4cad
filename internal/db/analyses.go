package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveAnalysis stores a finished analysis report and returns its ID
func (db *DB) SaveAnalysis(ctx context.Context, input *AnalysisInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO analyses
		   (user_id, source_name, source_url, title, report, sizes,
		    rows_parsed, stitch_count_errors, total_warnings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		input.UserID, input.SourceName, input.SourceURL, input.Title,
		input.Report, input.Sizes,
		input.RowsParsed, input.StitchCountErrors, input.TotalWarnings,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves a stored analysis by ID, including the full report
// JSON. Returns nil without error when not found.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var a Analysis
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, source_name, COALESCE(source_url, ''), COALESCE(title, ''),
		        report, sizes, rows_parsed, stitch_count_errors, total_warnings, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.UserID, &a.SourceName, &a.SourceURL, &a.Title,
		&a.Report, &a.Sizes, &a.RowsParsed, &a.StitchCountErrors, &a.TotalWarnings, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &a, nil
}

// ListAnalyses returns the most recent analyses for a user, newest first.
// The report column is not loaded; use GetAnalysis for the full report.
func (db *DB) ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, source_name, COALESCE(source_url, ''), COALESCE(title, ''),
		        sizes, rows_parsed, stitch_count_errors, total_warnings, created_at
		 FROM analyses WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.SourceName, &a.SourceURL, &a.Title,
			&a.Sizes, &a.RowsParsed, &a.StitchCountErrors, &a.TotalWarnings, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return analyses, nil
}

// DeleteAnalysis removes a stored analysis owned by the given user
func (db *DB) DeleteAnalysis(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM analyses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}
