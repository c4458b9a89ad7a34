// Package resultstore persists engine/sweep's per-cell simulation results
// into a hash-chained Postgres ledger, so a sweep's output survives the
// process and its integrity can be independently re-verified later.
package resultstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/gzip"
	_ "github.com/lib/pq"

	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxOpenConns      int
	MaxIdleConns      int
	SynchronousCommit bool
}

// DefaultConfig returns a default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		Host:              "localhost",
		Port:              5432,
		User:              "postgres",
		Password:          "postgres",
		Database:          "jamsim_results",
		SSLMode:           "disable",
		MaxOpenConns:      20,
		MaxIdleConns:      5,
		SynchronousCommit: false,
	}
}

// Store wraps a Postgres connection holding the sweep-result ledger.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open connects to Postgres and applies the throughput tuning.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("resultstore: failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("resultstore: failed to connect to database: %w", err)
	}

	setSyncQuery := "SET synchronous_commit = off"
	if cfg.SynchronousCommit {
		setSyncQuery = "SET synchronous_commit = on"
	}
	if _, err := db.ExecContext(ctx, setSyncQuery); err != nil {
		return nil, fmt.Errorf("resultstore: failed to set synchronous_commit: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one persisted run's ledger row: its identifying fields plus the
// hash-chain linkage that lets a later audit detect tampering or gaps. The
// full Result is stored compressed in the row and read back by GetResult;
// Entry itself does not carry it.
type Entry struct {
	ID           string
	SequenceNum  int64
	RunID        string
	Seed         int64
	UpfrontBase  float64
	UpfrontRate  float64
	PreviousHash string
	CurrentHash  string
	CreatedAt    string
}

// compressPayload gzips the JSON-encoded Result so wide per-node revenue
// maps don't bloat the ledger table.
func compressPayload(r result.Result) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("resultstore: failed to marshal result: %w", err)
	}
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return nil, fmt.Errorf("resultstore: failed to gzip result: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("resultstore: failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressPayload(b []byte) (result.Result, error) {
	var r result.Result
	gr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return r, fmt.Errorf("resultstore: failed to open gzip reader: %w", err)
	}
	defer gr.Close()
	if err := json.NewDecoder(gr).Decode(&r); err != nil {
		return r, fmt.Errorf("resultstore: failed to unmarshal result: %w", err)
	}
	return r, nil
}

// computeHash mirrors the chain-linking hash used to verify integrity:
// every entry's current_hash commits to its payload and to the hash
// immediately before it.
func computeHash(runID string, seed int64, payload []byte, previousHash string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%d:%x:%s", runID, seed, sha256.Sum256(payload), previousHash)
	return hex.EncodeToString(h.Sum(nil))
}

// InsertResult appends one run's Result to the ledger, chained to whatever
// entry was most recently inserted into the table (the chain is global,
// not per cell).
func (s *Store) InsertResult(ctx context.Context, cell sweep.FeeCoeffCell, r result.Result) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var previousHash string
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE((SELECT current_hash FROM sweep_results ORDER BY sequence_num DESC LIMIT 1), 'genesis')`)
	if err := row.Scan(&previousHash); err != nil {
		return nil, fmt.Errorf("resultstore: failed to get latest hash: %w", err)
	}

	payload, err := compressPayload(r)
	if err != nil {
		return nil, err
	}
	currentHash := computeHash(r.RunID, r.Seed, payload, previousHash)

	query := `
		INSERT INTO sweep_results (run_id, seed, upfront_base_coeff, upfront_rate_coeff, payload, previous_hash, current_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, sequence_num, created_at
	`
	var entry Entry
	entry.RunID = r.RunID
	entry.Seed = r.Seed
	entry.UpfrontBase = cell.UpfrontBaseCoeff
	entry.UpfrontRate = cell.UpfrontRateCoeff
	entry.PreviousHash = previousHash
	entry.CurrentHash = currentHash

	err = s.db.QueryRowContext(ctx, query,
		r.RunID, r.Seed, cell.UpfrontBaseCoeff, cell.UpfrontRateCoeff, payload, previousHash, currentHash,
	).Scan(&entry.ID, &entry.SequenceNum, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("resultstore: failed to insert result: %w", err)
	}

	return &entry, nil
}

// GetResult retrieves and decompresses a previously stored Result by id.
func (s *Store) GetResult(ctx context.Context, id string) (result.Result, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sweep_results WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		return result.Result{}, fmt.Errorf("resultstore: failed to get result %q: %w", id, err)
	}
	return decompressPayload(payload)
}

// IntegrityViolation describes one broken link in the hash chain.
type IntegrityViolation struct {
	SequenceNum      int64
	ExpectedPrevious string
	ActualPrevious   string
}

// VerifyChain walks the ledger in sequence order and reports every entry
// whose previous_hash doesn't match the prior row's current_hash.
func (s *Store) VerifyChain(ctx context.Context) ([]IntegrityViolation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_num, previous_hash, current_hash
		FROM sweep_results
		ORDER BY sequence_num ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("resultstore: failed to query chain: %w", err)
	}
	defer rows.Close()

	var violations []IntegrityViolation
	expected := "genesis"
	for rows.Next() {
		var seq int64
		var previousHash, currentHash string
		if err := rows.Scan(&seq, &previousHash, &currentHash); err != nil {
			return nil, fmt.Errorf("resultstore: failed to scan chain row: %w", err)
		}
		if previousHash != expected {
			violations = append(violations, IntegrityViolation{
				SequenceNum:      seq,
				ExpectedPrevious: expected,
				ActualPrevious:   previousHash,
			})
		}
		expected = currentHash
	}
	return violations, nil
}
