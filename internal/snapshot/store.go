// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot keeps a history of parsed PRDs in SQLite so that
// threshold and requirement changes can be compared across revisions.
// The parsing packages never write here; the CLI decides when to save.
package snapshot

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prdgate/pkg/types"
)

const dbFile = "prdgate.db"

// Snapshot is one stored parse of a requirements document.
type Snapshot struct {
	ID           string                `json:"id" yaml:"id"`
	Path         string                `json:"path" yaml:"path"`
	Title        string                `json:"title" yaml:"title"`
	Version      string                `json:"version" yaml:"version"`
	ContentHash  string                `json:"content_hash" yaml:"content_hash"`
	CreatedAt    time.Time             `json:"created_at" yaml:"created_at"`
	Requirements int                   `json:"requirements" yaml:"requirements"`
	Standards    int                   `json:"standards" yaml:"standards"`
	Thresholds   types.ThresholdConfig `json:"thresholds" yaml:"thresholds"`

	// Unchanged is set by Save when the content hash matched the latest
	// snapshot of the same path and nothing was written.
	Unchanged bool `json:"-" yaml:"-"`
}

// Store manages the snapshot SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates dir/prdgate.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".prdgate"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			title TEXT,
			version TEXT,
			content_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			requirement_count INTEGER,
			standard_count INTEGER,
			thresholds TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_path ON snapshots(path)`,
		`CREATE TABLE IF NOT EXISTS requirements (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			name TEXT,
			description TEXT,
			section TEXT,
			priority TEXT,
			criteria TEXT,
			PRIMARY KEY (snapshot_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS quality_standards (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			requirement TEXT,
			threshold TEXT,
			metric TEXT,
			unit TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ContentHash returns the hex SHA-256 of a document's raw content.
func ContentHash(doc *types.PRDDocument) string {
	sum := sha256.Sum256([]byte(doc.RawContent))
	return hex.EncodeToString(sum[:])
}

// Save records doc with its thresholds. If the most recent snapshot of the
// same path has the same content hash, that snapshot is returned with
// Unchanged set and nothing is written.
func (s *Store) Save(ctx context.Context, doc *types.PRDDocument, thresholds types.ThresholdConfig) (Snapshot, error) {
	hash := ContentHash(doc)

	latest, err := s.latestForPath(ctx, doc.Path)
	if err != nil {
		return Snapshot{}, err
	}
	if latest != nil && latest.ContentHash == hash {
		latest.Unchanged = true
		return *latest, nil
	}

	snap := Snapshot{
		ID:           uuid.NewString(),
		Path:         doc.Path,
		Title:        doc.Title,
		Version:      doc.Version,
		ContentHash:  hash,
		CreatedAt:    time.Now().UTC(),
		Requirements: len(doc.FunctionalRequirements),
		Standards:    len(doc.QualityRequirements),
		Thresholds:   thresholds,
	}

	thresholdsYAML, err := yaml.Marshal(&thresholds)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshaling thresholds: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, path, title, version, content_hash, created_at, requirement_count, standard_count, thresholds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Path, snap.Title, snap.Version, snap.ContentHash,
		snap.CreatedAt.Format(time.RFC3339Nano), snap.Requirements, snap.Standards,
		string(thresholdsYAML),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("inserting snapshot: %w", err)
	}

	reqStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO requirements (snapshot_id, position, id, name, description, section, priority, criteria)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("preparing requirement insert: %w", err)
	}
	defer reqStmt.Close()

	for i, r := range doc.FunctionalRequirements {
		criteriaJSON, err := json.Marshal(r.AcceptanceCriteria)
		if err != nil {
			return Snapshot{}, fmt.Errorf("marshaling criteria for %s: %w", r.ID, err)
		}
		if _, err := reqStmt.ExecContext(ctx,
			snap.ID, i, r.ID, r.Name, r.Description, r.Section, r.Priority, string(criteriaJSON),
		); err != nil {
			return Snapshot{}, fmt.Errorf("inserting requirement %s: %w", r.ID, err)
		}
	}

	for _, qs := range doc.QualityRequirements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quality_standards (snapshot_id, category, name, requirement, threshold, metric, unit)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.ID, string(qs.Category), qs.Name, qs.Requirement, qs.Threshold, string(qs.Metric), qs.Unit,
		); err != nil {
			return Snapshot{}, fmt.Errorf("inserting quality standard %s: %w", qs.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("committing snapshot: %w", err)
	}
	return snap, nil
}

const snapshotColumns = `id, path, title, version, content_hash, created_at, requirement_count, standard_count, thresholds`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var (
		snap       Snapshot
		createdAt  string
		thresholds string
	)
	if err := row.Scan(&snap.ID, &snap.Path, &snap.Title, &snap.Version, &snap.ContentHash,
		&createdAt, &snap.Requirements, &snap.Standards, &thresholds); err != nil {
		return Snapshot{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	snap.CreatedAt = t
	if err := yaml.Unmarshal([]byte(thresholds), &snap.Thresholds); err != nil {
		return Snapshot{}, fmt.Errorf("parsing thresholds for %s: %w", snap.ID, err)
	}
	return snap, nil
}

func (s *Store) latestForPath(ctx context.Context, path string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE path = ? ORDER BY seq DESC LIMIT 1`, path)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return &snap, nil
}

// Latest returns the most recently saved snapshot, or nil when the store
// is empty.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return &snap, nil
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %q not found", id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first. A limit of zero uses
// the configured default.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Requirements returns the requirements stored with a snapshot in their
// original order.
func (s *Store) Requirements(ctx context.Context, snapshotID string) ([]types.Requirement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, section, priority, criteria
		 FROM requirements WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	var out []types.Requirement
	for rows.Next() {
		var (
			r        types.Requirement
			criteria string
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Section, &r.Priority, &criteria); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		if err := json.Unmarshal([]byte(criteria), &r.AcceptanceCriteria); err != nil {
			return nil, fmt.Errorf("parsing criteria for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Standards returns the quality standards stored with a snapshot.
func (s *Store) Standards(ctx context.Context, snapshotID string) ([]types.QualityStandard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, name, requirement, threshold, metric, unit
		 FROM quality_standards WHERE snapshot_id = ? ORDER BY rowid`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying quality standards: %w", err)
	}
	defer rows.Close()

	var out []types.QualityStandard
	for rows.Next() {
		var (
			qs               types.QualityStandard
			category, metric string
		)
		if err := rows.Scan(&category, &qs.Name, &qs.Requirement, &qs.Threshold, &metric, &qs.Unit); err != nil {
			return nil, fmt.Errorf("scanning quality standard: %w", err)
		}
		qs.Category = types.QualityCategory(category)
		qs.Metric = types.MetricKind(metric)
		out = append(out, qs)
	}
	return out, rows.Err()
}
