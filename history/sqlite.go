package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps history in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, population_size, started_at, config)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			population_size = excluded.population_size,
			started_at = excluded.started_at,
			config = excluded.config
	`, run.ID, run.Seed, run.PopulationSize, run.StartedAt.UnixNano(), run.Config)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	run := RunRecord{ID: id}
	var startedAt int64
	err = db.QueryRowContext(ctx,
		`SELECT seed, population_size, started_at, config FROM runs WHERE id = ?`, id,
	).Scan(&run.Seed, &run.PopulationSize, &startedAt, &run.Config)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}
	run.StartedAt = time.Unix(0, startedAt)
	return run, true, nil
}

func (s *SQLiteStore) AppendGeneration(ctx context.Context, runID string, rec GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, reason, elite_fitness, best_fitness, fitness_mean, success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			reason = excluded.reason,
			elite_fitness = excluded.elite_fitness,
			best_fitness = excluded.best_fitness,
			fitness_mean = excluded.fitness_mean,
			success = excluded.success
	`, runID, rec.Generation, rec.Reason, rec.EliteFitness, rec.BestFitness, rec.FitnessMean, rec.Success)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, reason, elite_fitness, best_fitness, fitness_mean, success
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		if err := rows.Scan(&rec.Generation, &rec.Reason, &rec.EliteFitness, &rec.BestFitness, &rec.FitnessMean, &rec.Success); err != nil {
			return nil, fmt.Errorf("scan generation for run %s: %w", runID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveController(ctx context.Context, runID string, generation int, data []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO controllers (run_id, generation, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			payload = excluded.payload
	`, runID, generation, data)
	return err
}

func (s *SQLiteStore) LatestController(ctx context.Context, runID string) (int, []byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, nil, false, err
	}

	var (
		generation int
		payload    []byte
	)
	err = db.QueryRowContext(ctx, `
		SELECT generation, payload FROM controllers
		WHERE run_id = ? ORDER BY generation DESC LIMIT 1
	`, runID).Scan(&generation, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, false, nil
		}
		return 0, nil, false, err
	}
	return generation, payload, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			population_size INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			config BLOB
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			reason TEXT NOT NULL,
			elite_fitness REAL NOT NULL,
			best_fitness REAL NOT NULL,
			fitness_mean REAL NOT NULL,
			success INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE TABLE IF NOT EXISTS controllers (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
