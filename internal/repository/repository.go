// Package repository содержит реализации хранилища именованных слотов, в которых лежат коллекции записей.
package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Имена слотов совпадают с ключами, под которыми исходное веб-приложение хранит данные.
const (
	SlotAccounts     = "trava_users"
	SlotServices     = "trava_services"
	SlotAppointments = "trava_appointments"
	SlotSession      = "trava_current_user"
)

// Драйверы хранилища.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

var (
	// ErrSlotEmpty возвращается, если в слоте ещё ничего не сохранено.
	ErrSlotEmpty = errors.New("slot is empty")
	// ErrUnknownDriver возвращается при запросе неизвестного драйвера хранилища.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Backend описывает хранилище ключ-значение, в котором каждый слот содержит одно JSON-значение.
type Backend interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Remove(ctx context.Context, slot string) error
	Close() error
}

// Options содержит параметры подключения к хранилищу.
type Options struct {
	Driver        string
	DatabaseURI   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// Open создаёт хранилище для указанного драйвера.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryBackend(), nil
	case DriverSQLite:
		return NewSQLiteBackend(ctx, opts.SQLitePath)
	case DriverPostgres:
		return NewPostgresBackend(ctx, opts.DatabaseURI)
	case DriverMongo:
		return NewMongoBackend(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

func runMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
