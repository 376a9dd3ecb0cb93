package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend хранит слоты в локальном файле SQLite.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend открывает файл базы и применяет миграции.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// одно соединение: SQLite не допускает параллельных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := runMigrations(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteBackend{db: db}, nil
}

// Load возвращает содержимое слота.
func (s *SQLiteBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, slot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("select slot %s: %w", slot, err)
	}
	return []byte(value), nil
}

// Save перезаписывает содержимое слота.
func (s *SQLiteBackend) Save(ctx context.Context, slot string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, value) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		slot, string(data),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Remove удаляет слот.
func (s *SQLiteBackend) Remove(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Close закрывает файл базы.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
