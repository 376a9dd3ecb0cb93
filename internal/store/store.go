// Package store реализует хранилище записей: три коллекции и слот текущей сессии поверх именованных слотов.
//
// Каждая запись коллекции полностью перезаписывает соответствующий слот. Внутри процесса цикл
// чтение-изменение-запись коллекции сериализован мьютексом; несколько процессов над одним
// хранилищем по-прежнему могут затирать изменения друг друга.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/trava-scheduler/internal/model"
	"github.com/mmeshcher/trava-scheduler/internal/repository"
)

// Record описывает запись коллекции.
type Record interface {
	RecordID() string
	OwnerID() string
}

// Collection хранит упорядоченный список записей одного типа в одном слоте.
type Collection[T Record] struct {
	backend repository.Backend
	slot    string
	logger  *zap.Logger
	mu      sync.Mutex
}

func newCollection[T Record](backend repository.Backend, slot string, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		slot:    slot,
		logger:  logger,
	}
}

// List возвращает все записи коллекции в порядке добавления.
// Пустой или повреждённый слот читается как пустая коллекция.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	data, err := c.backend.Load(ctx, c.slot)
	if err != nil {
		if errors.Is(err, repository.ErrSlotEmpty) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", c.slot, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("corrupt slot, reading as empty", zap.String("slot", c.slot), zap.Error(err))
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// ListByOwner возвращает записи, принадлежащие указанной учётной записи.
func (c *Collection[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return c.Find(ctx, func(r T) bool { return r.OwnerID() == ownerID })
}

// Find возвращает записи, удовлетворяющие предикату.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	records, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]T, 0, len(records))
	for _, r := range records {
		if match(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

// Get возвращает запись по идентификатору. Отсутствие записи не является ошибкой.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T

	records, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}

	for _, r := range records {
		if r.RecordID() == id {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Upsert заменяет запись с тем же идентификатором на её месте либо добавляет запись в конец.
func (c *Collection[T]) Upsert(ctx context.Context, record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range records {
		if r.RecordID() == record.RecordID() {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return c.save(ctx, records)
}

// Update изменяет существующую запись функцией fn под мьютексом коллекции, так что проверка
// и запись не перемежаются с другими изменениями. Отсутствующая запись не создаётся: возвращается false.
// Ошибка fn прерывает изменение и возвращается как есть.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, bool, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}

	for i := range records {
		if records[i].RecordID() != id {
			continue
		}

		updated := records[i]
		if err := fn(&updated); err != nil {
			return zero, true, err
		}
		records[i] = updated

		if err := c.save(ctx, records); err != nil {
			return zero, true, err
		}
		return updated, true, nil
	}
	return zero, false, nil
}

// Delete удаляет запись по идентификатору; отсутствие записи не является ошибкой.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.List(ctx)
	if err != nil {
		return err
	}

	filtered := make([]T, 0, len(records))
	for _, r := range records {
		if r.RecordID() != id {
			filtered = append(filtered, r)
		}
	}

	return c.save(ctx, filtered)
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.slot, err)
	}
	if err := c.backend.Save(ctx, c.slot, data); err != nil {
		return fmt.Errorf("save %s: %w", c.slot, err)
	}
	return nil
}

// Store объединяет коллекции учётных записей, услуг и записей клиентов и слот текущей сессии.
type Store struct {
	Accounts     *Collection[model.Account]
	Services     *Collection[model.Service]
	Appointments *Collection[model.Appointment]

	backend repository.Backend
	logger  *zap.Logger
}

// New создаёт хранилище записей поверх указанного хранилища слотов.
func New(backend repository.Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		Accounts:     newCollection[model.Account](backend, repository.SlotAccounts, logger),
		Services:     newCollection[model.Service](backend, repository.SlotServices, logger),
		Appointments: newCollection[model.Appointment](backend, repository.SlotAppointments, logger),
		backend:      backend,
		logger:       logger,
	}
}

// AccountByEmail возвращает учётную запись с указанным адресом.
func (s *Store) AccountByEmail(ctx context.Context, email string) (model.Account, bool, error) {
	found, err := s.Accounts.Find(ctx, func(a model.Account) bool { return a.Email == email })
	if err != nil || len(found) == 0 {
		return model.Account{}, false, err
	}
	return found[0], true, nil
}

// Session возвращает учётную запись текущей сессии или nil, если сессия пуста.
func (s *Store) Session(ctx context.Context) (*model.Account, error) {
	data, err := s.backend.Load(ctx, repository.SlotSession)
	if err != nil {
		if errors.Is(err, repository.ErrSlotEmpty) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var account *model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		s.logger.Warn("corrupt session slot, reading as empty", zap.Error(err))
		return nil, nil
	}
	return account, nil
}

// SetSession сохраняет учётную запись текущей сессии; nil очищает слот.
func (s *Store) SetSession(ctx context.Context, account *model.Account) error {
	if account == nil {
		if err := s.backend.Remove(ctx, repository.SlotSession); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Save(ctx, repository.SlotSession, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Close закрывает хранилище слотов.
func (s *Store) Close() error {
	return s.backend.Close()
}
