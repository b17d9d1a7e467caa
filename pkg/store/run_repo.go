package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"fairvalue/pkg/models"
)

// SaveRun persists a completed valuation run. The latest run per ticker
// and methodology wins; history lives in the JSONB blob's run metadata.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS valuation_runs (
//   ticker TEXT NOT NULL,
//   methodology TEXT NOT NULL,
//   run_id TEXT NOT NULL,
//   result_json JSONB,
//   updated_at TIMESTAMPTZ,
//   PRIMARY KEY (ticker, methodology)
// );
func (s *Store) SaveRun(ctx context.Context, result *models.ValuationResult) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO valuation_runs (ticker, methodology, run_id, result_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker, methodology)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			result_json = EXCLUDED.result_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = s.pool.Exec(ctx, query,
		result.Ticker, string(result.Methodology), result.Meta.RunID, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// LoadRun retrieves the latest stored run for a ticker and methodology.
func (s *Store) LoadRun(ctx context.Context, ticker string, m models.Methodology) (*models.ValuationResult, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT result_json FROM valuation_runs WHERE ticker = $1 AND methodology = $2`

	var jsonData []byte
	err := s.pool.QueryRow(ctx, query, ticker, string(m)).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no stored run for %s (%s)", ticker, m)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var result models.ValuationResult
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored run: %w", err)
	}
	return &result, nil
}
