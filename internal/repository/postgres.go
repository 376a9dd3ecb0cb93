package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresBackend хранит слоты в таблице PostgreSQL.
type PostgresBackend struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresBackend создаёт пул соединений и инициализирует схему БД через миграции.
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := runMigrations(ctx, db, "postgres"); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresBackend{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}, nil
}

func (p *PostgresBackend) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(p.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(p.delays) {
			break
		}

		timer := time.NewTimer(p.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Load возвращает содержимое слота.
func (p *PostgresBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM slots WHERE name = $1`, slot).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("select slot %s: %w", slot, err)
	}
	return []byte(value), nil
}

// Save перезаписывает содержимое слота. Временные ошибки БД повторяются с задержкой.
func (p *PostgresBackend) Save(ctx context.Context, slot string, data []byte) error {
	err := p.withRetry(ctx, func() error {
		_, err := p.pool.Exec(ctx,
			`INSERT INTO slots (name, value) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			slot, string(data),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Remove удаляет слот.
func (p *PostgresBackend) Remove(ctx context.Context, slot string) error {
	err := p.withRetry(ctx, func() error {
		_, err := p.pool.Exec(ctx, `DELETE FROM slots WHERE name = $1`, slot)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Close закрывает пул соединений с БД.
func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
