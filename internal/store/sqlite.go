package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/n7z/jobradar/internal/model"
)

// SQLiteStore persists job records in a SQLite database keyed by dedup ID.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		company       TEXT NOT NULL,
		location      TEXT,
		url           TEXT,
		source        TEXT,
		description   TEXT,
		salary        TEXT,
		posted_at     DATETIME,
		discovered_at DATETIME NOT NULL,
		applied       INTEGER NOT NULL DEFAULT 0,
		hidden        INTEGER NOT NULL DEFAULT 0,
		applied_at    DATETIME
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// All returns every stored record, hidden ones included.
func (s *SQLiteStore) All() ([]model.Job, error) {
	rows, err := s.db.Query(`SELECT id, title, company, location, url, source,
		description, salary, posted_at, discovered_at, applied, hidden, applied_at
		FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Get returns the record for id; ok is false when absent.
func (s *SQLiteStore) Get(id string) (model.Job, bool, error) {
	row := s.db.QueryRow(`SELECT id, title, company, location, url, source,
		description, salary, posted_at, discovered_at, applied, hidden, applied_at
		FROM jobs WHERE id = ?`, id)

	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return model.Job{}, false, nil
	}
	if err != nil {
		return model.Job{}, false, fmt.Errorf("getting job %s: %w", id, err)
	}
	return j, true, nil
}

// PutBatch writes all records in one transaction. Either every record is
// written or, on error, none is.
func (s *SQLiteStore) PutBatch(jobs []model.Job) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting merge transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO jobs
		(id, title, company, location, url, source, description, salary,
		 posted_at, discovered_at, applied, hidden, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			url = excluded.url,
			source = excluded.source,
			description = excluded.description,
			salary = excluded.salary,
			posted_at = excluded.posted_at,
			discovered_at = excluded.discovered_at,
			applied = excluded.applied,
			hidden = excluded.hidden,
			applied_at = excluded.applied_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		if _, err := stmt.Exec(
			j.ID, j.Title, j.Company, j.Location, j.URL, j.Source,
			j.Description, j.Salary, timePtr(j.PostedAt), j.DiscoveredAt,
			boolToInt(j.Applied), boolToInt(j.Hidden), timePtr(j.AppliedAt),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("upserting job %s: %w", j.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing merge: %w", err)
	}
	return nil
}

// SetApplied toggles the applied flag for one record, stamping applied_at
// when set and clearing it when unset.
func (s *SQLiteStore) SetApplied(id string, applied bool) error {
	var appliedAt any
	if applied {
		appliedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`UPDATE jobs SET applied = ?, applied_at = ? WHERE id = ?`,
		boolToInt(applied), appliedAt, id)
	if err != nil {
		return fmt.Errorf("marking job %s applied=%v: %w", id, applied, err)
	}
	return requireRow(res, id)
}

// SetHidden toggles the hidden flag for one record.
func (s *SQLiteStore) SetHidden(id string, hidden bool) error {
	res, err := s.db.Exec(`UPDATE jobs SET hidden = ? WHERE id = ?`, boolToInt(hidden), id)
	if err != nil {
		return fmt.Errorf("marking job %s hidden=%v: %w", id, hidden, err)
	}
	return requireRow(res, id)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update for %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (model.Job, error) {
	var j model.Job
	var location, url, source, description, salary sql.NullString
	var postedAt, appliedAt sql.NullTime
	var applied, hidden int

	err := r.Scan(&j.ID, &j.Title, &j.Company, &location, &url, &source,
		&description, &salary, &postedAt, &j.DiscoveredAt, &applied, &hidden, &appliedAt)
	if err != nil {
		return model.Job{}, err
	}

	j.Location = location.String
	j.URL = url.String
	j.Source = source.String
	j.Description = description.String
	j.Salary = salary.String
	if postedAt.Valid {
		t := postedAt.Time
		j.PostedAt = &t
	}
	if appliedAt.Valid {
		t := appliedAt.Time
		j.AppliedAt = &t
	}
	j.Applied = applied != 0
	j.Hidden = hidden != 0
	return j, nil
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
