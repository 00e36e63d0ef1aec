package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

// SQLiteResultLog журнал во встроенной базе: одна строка на запись, порядок по rowid.
// Поля совпадают с JSON-журналом.
type SQLiteResultLog struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteResultLog открывает или создаёт базу по пути path.
func NewSQLiteResultLog(path string) (*SQLiteResultLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create store directory: %v", entity.ErrPersistence, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", entity.ErrPersistence, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	l := &SQLiteResultLog{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate database: %v", entity.ErrPersistence, err)
	}

	return l, nil
}

// migrate создаёт таблицу, если её ещё нет.
func (l *SQLiteResultLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS egg_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		label TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 0,
		size TEXT NOT NULL,
		diagonal_pixels REAL NOT NULL DEFAULT 0,
		image_path TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_egg_records_timestamp ON egg_records(timestamp);
	`

	_, err := l.db.Exec(schema)
	return err
}

// Append добавляет запись одной транзакцией.
func (l *SQLiteResultLog) Append(ctx context.Context, record entity.EggRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO egg_records (timestamp, label, confidence, size, diagonal_pixels, image_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Timestamp, record.Label, record.Confidence, record.Size, record.DiagonalPixels, record.ImagePath)
	if err != nil {
		return fmt.Errorf("%w: insert record: %v", entity.ErrPersistence, err)
	}
	return nil
}

// Records возвращает все записи в порядке добавления.
func (l *SQLiteResultLog) Records(ctx context.Context) ([]entity.EggRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT timestamp, label, confidence, size, diagonal_pixels, image_path
		FROM egg_records ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %v", entity.ErrPersistence, err)
	}
	defer rows.Close()

	records := []entity.EggRecord{}
	for rows.Next() {
		var r entity.EggRecord
		if err := rows.Scan(&r.Timestamp, &r.Label, &r.Confidence, &r.Size, &r.DiagonalPixels, &r.ImagePath); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", entity.ErrPersistence, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return records, nil
}

// Close закрывает базу.
func (l *SQLiteResultLog) Close() error {
	return l.db.Close()
}

var _ port.ResultLog = (*SQLiteResultLog)(nil)
