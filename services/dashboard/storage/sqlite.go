package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

const defaultHistoryLimit = 1000

// sqliteStorage keeps the refresh history of the monitored APIs and their pictures
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every new connection to :memory: would see its own empty database
		db.SetMaxOpenConns(1)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS api_health (
		api_id      TEXT    NOT NULL,
		uptime      REAL    NOT NULL DEFAULT 0,
		has_uptime  INTEGER NOT NULL DEFAULT 0,
		available   INTEGER NOT NULL,
		refresh_id  TEXT    NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS api_pictures (
		api_id     TEXT    NOT NULL PRIMARY KEY,
		data_url   TEXT    NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_api_health_api_id ON api_health(api_id);
	CREATE INDEX IF NOT EXISTS idx_api_health_recorded_at ON api_health(recorded_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveHealthRecords stores the outcome of one refresh cycle in a single transaction
func (s *sqliteStorage) SaveHealthRecords(ctx context.Context, records []common.ApiHealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO api_health (api_id, uptime, has_uptime, available, refresh_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare health record insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx, r.ApiID, r.Uptime, r.HasUptime, r.Available, r.RefreshID, r.RecordedAt)
		if err != nil {
			return fmt.Errorf("failed to insert health record of API %s: %w", r.ApiID, err)
		}
	}

	return tx.Commit()
}

// GetApiHealthHistory returns the most recent health records of an API, in ascending time order
func (s *sqliteStorage) GetApiHealthHistory(ctx context.Context, apiID string, limit int) ([]common.ApiHealthRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT api_id, uptime, has_uptime, available, refresh_id, recorded_at
		FROM (
			SELECT rowid AS seq, * FROM api_health
			WHERE api_id = ?
			ORDER BY recorded_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY recorded_at, seq
	`, apiID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.ApiHealthRecord, 0)
	for rows.Next() {
		var r common.ApiHealthRecord
		err = rows.Scan(&r.ApiID, &r.Uptime, &r.HasUptime, &r.Available, &r.RefreshID, &r.RecordedAt)
		if err != nil {
			return nil, err
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// SavePicture upserts the picture of an API
func (s *sqliteStorage) SavePicture(ctx context.Context, apiID string, dataURL string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_pictures (api_id, data_url, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(api_id) DO UPDATE SET data_url=excluded.data_url, updated_at=excluded.updated_at
	`, apiID, dataURL, time.Now().UnixMilli())

	return err
}

// GetPicture returns the picture of an API as a data URL
func (s *sqliteStorage) GetPicture(ctx context.Context, apiID string) (string, error) {
	var dataURL string
	err := s.db.QueryRowContext(ctx, "SELECT data_url FROM api_pictures WHERE api_id = ?", apiID).Scan(&dataURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrPictureNotFound
	}

	return dataURL, err
}

// DeletePicture removes the picture of an API, if any
func (s *sqliteStorage) DeletePicture(ctx context.Context, apiID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM api_pictures WHERE api_id = ?", apiID)
	return err
}

func (s *sqliteStorage) cleanRetainedRecords(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(s.retentionSeconds) * time.Second).UnixMilli()
	_, err := s.db.ExecContext(ctx, "DELETE FROM api_health WHERE recorded_at < ?", cutoff)
	return err
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedRecords(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained health records", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
