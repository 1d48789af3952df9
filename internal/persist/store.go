package persist

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/identity"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	self_id       TEXT NOT NULL,
	revision      INTEGER NOT NULL,
	purpose       BLOB NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tick_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tick_id       TEXT NOT NULL,
	input_json    TEXT NOT NULL,
	outcome_json  TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	kind          TEXT NOT NULL,
	payload_json  TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists fingerprint snapshots, tick records, and engine events in
// SQLite. It is the write-only durability collaborator from the engine's
// perspective; the inspection and replay tools read it back.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. eventlog).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region fingerprints

// SaveFingerprint appends one fingerprint snapshot. Implements the engine's
// FingerprintSink contract.
func (s *Store) SaveFingerprint(fp identity.TeleologicalFingerprint) error {
	_, err := s.db.Exec(
		`INSERT INTO fingerprints (self_id, revision, purpose, created_at) VALUES (?, ?, ?, ?)`,
		fp.ID.String(), fp.Revision, encodeVector(fp.Purpose), fp.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save fingerprint: %w", err)
	}
	return nil
}

// FingerprintRow is one stored snapshot.
type FingerprintRow struct {
	SelfID    string
	Revision  uint64
	Purpose   [13]float32
	CreatedAt time.Time
}

// ListFingerprints returns the most recent snapshots, newest first.
func (s *Store) ListFingerprints(limit int) ([]FingerprintRow, error) {
	rows, err := s.db.Query(
		`SELECT self_id, revision, purpose, created_at
		 FROM fingerprints ORDER BY revision DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var out []FingerprintRow
	for rows.Next() {
		var r FingerprintRow
		var blob []byte
		var createdStr string
		if err := rows.Scan(&r.SelfID, &r.Revision, &blob, &createdStr); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		r.Purpose = decodeVector(blob)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion fingerprints

// #region tick-log

// RecordTick stores one tick's input (and optionally outcome) as JSON for
// later replay and fixture export.
func (s *Store) RecordTick(tickID, inputJSON, outcomeJSON string) error {
	var outcomePtr interface{}
	if outcomeJSON != "" {
		outcomePtr = outcomeJSON
	}
	_, err := s.db.Exec(
		`INSERT INTO tick_log (tick_id, input_json, outcome_json, created_at) VALUES (?, ?, ?, ?)`,
		tickID, inputJSON, outcomePtr, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record tick: %w", err)
	}
	return nil
}

// TickRow is one recorded tick.
type TickRow struct {
	TickID      string
	InputJSON   string
	OutcomeJSON string
	CreatedAt   time.Time
}

// ListTicks returns recorded ticks in chronological order. limit <= 0 means all.
func (s *Store) ListTicks(limit int) ([]TickRow, error) {
	query := `SELECT tick_id, input_json, outcome_json, created_at FROM tick_log ORDER BY id ASC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list ticks: %w", err)
	}
	defer rows.Close()

	var out []TickRow
	for rows.Next() {
		var r TickRow
		var outcome sql.NullString
		var createdStr string
		if err := rows.Scan(&r.TickID, &r.InputJSON, &outcome, &createdStr); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		if outcome.Valid {
			r.OutcomeJSON = outcome.String
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion tick-log

// #region event-log

// EventRow is one recorded engine event.
type EventRow struct {
	Kind        string
	PayloadJSON string
	CreatedAt   time.Time
}

// ListEvents returns the most recent events, newest first.
func (s *Store) ListEvents(limit int) ([]EventRow, error) {
	rows, err := s.db.Query(
		`SELECT kind, payload_json, created_at FROM event_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var r EventRow
		var payload sql.NullString
		var createdStr string
		if err := rows.Scan(&r.Kind, &payload, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if payload.Valid {
			r.PayloadJSON = payload.String
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion event-log

// #region vector-encoding
func encodeVector(v [13]float32) []byte {
	buf := make([]byte, 13*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) [13]float32 {
	var v [13]float32
	for i := range v {
		if i*4+4 <= len(b) {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
	}
	return v
}

// #endregion vector-encoding
