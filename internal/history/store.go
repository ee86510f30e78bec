package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/soupmail/internal/model"
)

// DBFile is the database file name inside the history directory.
const DBFile = "soupmail.db"

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("delivery not found")

// Store records deliveries in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dir.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, DBFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		mode TEXT NOT NULL,
		source TEXT NOT NULL,
		attempts INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		content TEXT NOT NULL,
		recipient_count INTEGER NOT NULL,
		message_id TEXT,
		status TEXT NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_deliveries_timestamp ON deliveries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_deliveries_hash ON deliveries(content_hash);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Save inserts d and sets its ID. A zero Timestamp is set to now and an
// empty ContentHash is computed from Content.
func (s *Store) Save(ctx context.Context, d *model.Delivery) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	if d.ContentHash == "" {
		d.ContentHash = ContentHash(d.Content)
	}

	query := `
	INSERT INTO deliveries (run_id, timestamp, mode, source, attempts, content_hash,
		content, recipient_count, message_id, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		d.RunID,
		d.Timestamp.UTC().Format(time.RFC3339Nano),
		d.Mode,
		string(d.Source),
		d.Attempts,
		d.ContentHash,
		d.Content,
		d.RecipientCount,
		d.MessageID,
		string(d.Status),
		d.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save delivery: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get delivery id: %w", err)
	}
	d.ID = id
	return nil
}

const selectColumns = `SELECT id, run_id, timestamp, mode, source, attempts, content_hash,
	content, recipient_count, message_id, status, error FROM deliveries`

// List returns the most recent deliveries, newest first. A limit of zero
// or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]model.Delivery, error) {
	query := selectColumns + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []model.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Get returns the delivery with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*model.Delivery, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// CountByHash returns how many earlier deliveries carried the same content.
func (s *Store) CountByHash(ctx context.Context, hash string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE content_hash = ? AND status != ?`,
		hash, string(model.StatusFailed),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(r rowScanner) (*model.Delivery, error) {
	var (
		d         model.Delivery
		ts        string
		source    string
		status    string
		messageID sql.NullString
		errText   sql.NullString
	)
	err := r.Scan(
		&d.ID, &d.RunID, &ts, &d.Mode, &source, &d.Attempts, &d.ContentHash,
		&d.Content, &d.RecipientCount, &messageID, &status, &errText,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan delivery: %w", err)
	}

	if d.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	d.Source = model.Source(source)
	d.Status = model.Status(status)
	d.MessageID = messageID.String
	d.Error = errText.String
	return &d, nil
}
