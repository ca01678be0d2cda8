package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/Adi9876/LP-pancakeswap/internal/invest"
)

// Store persists the outcome of every invest run, successful or not. The
// orchestrator is not resumable, so the step log and transaction hashes kept
// here are the only local evidence of what a past run did on-chain.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

type Run struct {
	RunID     string        `json:"run_id"`
	Status    string        `json:"status"`
	ChainID   int64         `json:"chain_id"`
	CreatedAt string        `json:"created_at"`
	Result    invest.Result `json:"result"`
}

func NewRunID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "run-unknown"
	}
	return fmt.Sprintf("run_%s", hex.EncodeToString(b))
}

func NewRun(result invest.Result) Run {
	status := "failed"
	if result.Success {
		status = "completed"
	}
	return Run{
		RunID:     NewRunID(),
		Status:    status,
		ChainID:   result.ChainID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
	}
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history lock directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history sqlite: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			chain_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);",
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init history schema: %w", err)
		}
	}
	return &Store{db: db, lock: flock.New(lockPath)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(run Run) error {
	if strings.TrimSpace(run.RunID) == "" {
		return fmt.Errorf("save run: missing run id")
	}
	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock history store: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock history store: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	createdUnix := time.Now().UTC().Unix()
	if t, err := time.Parse(time.RFC3339, run.CreatedAt); err == nil {
		createdUnix = t.UTC().Unix()
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (run_id, status, chain_id, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			status=excluded.status,
			payload=excluded.payload
	`, run.RunID, run.Status, run.ChainID, createdUnix, payload)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *Store) Get(runID string) (Run, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM runs WHERE run_id = ?", runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run not found: %s", runID)
		}
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return Run{}, fmt.Errorf("decode run payload: %w", err)
	}
	return run, nil
}

func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query("SELECT payload FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		var run Run
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, fmt.Errorf("decode run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}
