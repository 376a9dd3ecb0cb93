// Package service реализует бизнес-логику сервиса записи на услуги.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/trava-scheduler/internal/model"
	"github.com/mmeshcher/trava-scheduler/internal/payment"
	"github.com/mmeshcher/trava-scheduler/internal/store"
	"github.com/mmeshcher/trava-scheduler/internal/validation"
)

var (
	// ErrEmailTaken возвращается при регистрации с уже занятым адресом.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials возвращается при неверном адресе или пароле.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrForbidden возвращается, если запись принадлежит другой учётной записи.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyPaid возвращается при повторной оплате записи.
	ErrAlreadyPaid = errors.New("appointment already paid")
)

// Service содержит бизнес-логику сервиса записи на услуги.
type Service struct {
	store      *store.Store
	payments   *payment.Registry
	logger     *zap.Logger
	baseURL    string
	bcryptCost int
	now        func() time.Time

	// сериализует проверку адреса и создание учётной записи
	registerMu sync.Mutex
}

// NewService создаёт сервис поверх хранилища записей.
// baseURL используется для построения публичных ссылок на запись и оплату.
func NewService(st *store.Store, payments *payment.Registry, baseURL string, logger *zap.Logger) *Service {
	if payments == nil {
		payments = payment.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:      st,
		payments:   payments,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// Register регистрирует новую учётную запись и делает её текущей сессией.
// Ошибка записи сессии не отменяет регистрацию: она логируется, учётная запись возвращается.
func (s *Service) Register(ctx context.Context, email, password string) (*model.Account, error) {
	if err := validation.Struct(model.Credentials{Email: email, Password: password}); err != nil {
		return nil, err
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, exists, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := model.Account{
		ID:       newID(),
		Email:    email,
		Password: string(hash),
	}

	if err := s.store.Accounts.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if err := s.store.SetSession(ctx, &account); err != nil {
		s.logger.Warn("save session after register", zap.String("accountID", account.ID), zap.Error(err))
	}

	return &account, nil
}

// Login проверяет адрес и пароль и делает учётную запись текущей сессией.
// При ошибке текущая сессия не меняется.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Account, error) {
	account, ok, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifyPassword(ctx, &account, password); err != nil {
		return nil, err
	}

	if err := s.store.SetSession(ctx, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// verifyPassword сверяет пароль с сохранённым хешем. Учётные записи, перенесённые из браузера,
// хранят пароль открытым текстом: после первого успешного входа он заменяется хешем.
func (s *Service) verifyPassword(ctx context.Context, account *model.Account, password string) error {
	stored := []byte(account.Password)

	if _, err := bcrypt.Cost(stored); err == nil {
		if bcrypt.CompareHashAndPassword(stored, []byte(password)) != nil {
			return ErrInvalidCredentials
		}
		return nil
	}

	if password == "" || subtle.ConstantTimeCompare(stored, []byte(password)) != 1 {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	updated, found, err := s.store.Accounts.Update(ctx, account.ID, func(a *model.Account) error {
		a.Password = string(hash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rehash password: %w", err)
	}
	if found {
		*account = updated
	}
	return nil
}

// Logout очищает текущую сессию, если она принадлежит указанной учётной записи.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	current, err := s.store.Session(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.ID != accountID {
		return nil
	}
	return s.store.SetSession(ctx, nil)
}

// CurrentAccount возвращает учётную запись текущей сессии или nil.
func (s *Service) CurrentAccount(ctx context.Context) (*model.Account, error) {
	return s.store.Session(ctx)
}

// Account возвращает учётную запись по идентификатору.
func (s *Service) Account(ctx context.Context, id string) (*model.Account, error) {
	account, ok, err := s.store.Accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

// BookingLink возвращает публичную ссылку для записи на услугу.
func (s *Service) BookingLink(serviceID string) string {
	return s.baseURL + "/book/" + serviceID
}

// PaymentLink возвращает публичную ссылку для оплаты записи.
func (s *Service) PaymentLink(appointmentID string) string {
	return s.baseURL + "/pay/" + appointmentID
}

// Dashboard возвращает сводку по услугам и записям учётной записи.
// Выручка считается по оплаченным записям как числовая часть цены услуги.
func (s *Service) Dashboard(ctx context.Context, accountID string) (*model.Dashboard, error) {
	services, err := s.store.Services.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}
	appointments, err := s.store.Appointments.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(services))
	for _, svc := range services {
		prices[svc.ID] = validation.PriceAmount(svc.Price)
	}

	d := &model.Dashboard{
		Services:     len(services),
		Appointments: len(appointments),
	}
	for _, a := range appointments {
		if !a.IsPaid() {
			d.PendingPayments++
			continue
		}
		d.TotalRevenue += prices[a.ServiceID]
	}

	return d, nil
}

func checkOwner[T store.Record](record T, found bool, accountID string) error {
	if !found {
		return ErrNotFound
	}
	if record.OwnerID() != accountID {
		return ErrForbidden
	}
	return nil
}
