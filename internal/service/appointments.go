package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mmeshcher/trava-scheduler/internal/model"
	"github.com/mmeshcher/trava-scheduler/internal/validation"
)

// ListAppointments возвращает записи учётной записи, отсортированные по дате и времени.
// Записи с нераспознанной датой идут в конце в порядке добавления.
func (s *Service) ListAppointments(ctx context.Context, accountID string, filter model.AppointmentFilter) ([]model.Appointment, error) {
	if filter.Status != "" && !validation.IsValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: status %q", validation.ErrInvalid, filter.Status)
	}

	appointments, err := s.store.Appointments.Find(ctx, func(a model.Appointment) bool {
		return a.UserID == accountID && (filter.Status == "" || a.Status == filter.Status)
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(appointments, func(a, b model.Appointment) int {
		ta, errA := startsAt(a)
		tb, errB := startsAt(b)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return ta.Compare(tb)
	})

	return appointments, nil
}

func startsAt(a model.Appointment) (time.Time, error) {
	return time.Parse(validation.DateLayout+"T"+validation.TimeLayout, a.Date+"T"+a.Time)
}

// GetAppointment возвращает запись, принадлежащую учётной записи.
func (s *Service) GetAppointment(ctx context.Context, accountID, id string) (*model.Appointment, error) {
	a, ok, err := s.store.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(a, ok, accountID); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAppointment создаёт запись на услугу учётной записи.
func (s *Service) CreateAppointment(ctx context.Context, accountID string, in model.AppointmentInput) (*model.Appointment, error) {
	if err := s.checkAppointmentInput(ctx, accountID, in); err != nil {
		return nil, err
	}

	a := model.Appointment{
		ID:        newID(),
		UserID:    accountID,
		CreatedAt: s.now().UTC(),
	}
	applyAppointmentInput(&a, in)

	if err := s.store.Appointments.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &a, nil
}

// UpdateAppointment изменяет запись, сохраняя идентификатор и время создания.
// Удалённая параллельно запись не восстанавливается.
func (s *Service) UpdateAppointment(ctx context.Context, accountID, id string, in model.AppointmentInput) (*model.Appointment, error) {
	updated, found, err := s.store.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		if err := checkOwner(*a, true, accountID); err != nil {
			return err
		}
		if err := validateAppointmentInput(in); err != nil {
			return err
		}
		// услуга могла быть удалена после создания записи, проверяем её только при смене
		if in.ServiceID != a.ServiceID {
			if err := s.checkAppointmentService(ctx, accountID, in.ServiceID); err != nil {
				return err
			}
		}

		applyAppointmentInput(a, in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &updated, nil
}

// DeleteAppointment удаляет запись.
func (s *Service) DeleteAppointment(ctx context.Context, accountID, id string) error {
	if _, err := s.GetAppointment(ctx, accountID, id); err != nil {
		return err
	}
	return s.store.Appointments.Delete(ctx, id)
}

// RecordPayment отмечает запись оплаченной указанным способом по подтверждению поставщика.
func (s *Service) RecordPayment(ctx context.Context, accountID, id string, method model.PaymentMethod) (*model.Appointment, error) {
	if !validation.IsValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: payment method %q", validation.ErrInvalid, method)
	}

	updated, found, err := s.store.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		if err := checkOwner(*a, true, accountID); err != nil {
			return err
		}
		a.MarkPaid(method)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &updated, nil
}

// BookService создаёт запись клиента по публичной ссылке. Запись принадлежит владельцу услуги.
func (s *Service) BookService(ctx context.Context, serviceID string, in model.BookingInput) (*model.Appointment, error) {
	svc, err := s.PublicService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if validation.IsPastDate(in.Date, s.now()) {
		return nil, fmt.Errorf("%w: date is in the past", validation.ErrInvalid)
	}

	a := model.Appointment{
		ID:            newID(),
		UserID:        svc.UserID,
		ServiceID:     svc.ID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Date:          in.Date,
		Time:          in.Time,
		Status:        model.AppointmentStatusScheduled,
		PaymentStatus: model.PaymentStatusPending,
		Notes:         in.Notes,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.Appointments.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("book service: %w", err)
	}
	return &a, nil
}

// PaymentView возвращает запись и её услугу для публичной страницы оплаты.
func (s *Service) PaymentView(ctx context.Context, id string) (*model.Appointment, *model.Service, error) {
	a, ok, err := s.store.Appointments.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNotFound
	}

	svc, ok, err := s.store.Services.Get(ctx, a.ServiceID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: service %s", ErrNotFound, a.ServiceID)
	}

	return &a, &svc, nil
}

// Pay проводит оплату записи клиентом через процессор выбранного способа оплаты.
// Проверка оплаты, списание и сохранение выполняются под блокировкой коллекции записей,
// поэтому из параллельных оплат одной записи проходит только одна.
func (s *Service) Pay(ctx context.Context, id string, method model.PaymentMethod) (*model.Appointment, error) {
	processor, err := s.payments.Processor(method)
	if err != nil {
		return nil, err
	}

	_, svc, err := s.PaymentView(ctx, id)
	if err != nil {
		return nil, err
	}

	paid, found, err := s.store.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		if a.IsPaid() {
			return ErrAlreadyPaid
		}
		if err := processor.Charge(ctx, *a, *svc); err != nil {
			return fmt.Errorf("charge %s: %w", method, err)
		}
		a.MarkPaid(method)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &paid, nil
}

func (s *Service) checkAppointmentInput(ctx context.Context, accountID string, in model.AppointmentInput) error {
	if err := validateAppointmentInput(in); err != nil {
		return err
	}
	return s.checkAppointmentService(ctx, accountID, in.ServiceID)
}

func (s *Service) checkAppointmentService(ctx context.Context, accountID, serviceID string) error {
	if _, err := s.GetService(ctx, accountID, serviceID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return fmt.Errorf("%w: unknown service %s", validation.ErrInvalid, serviceID)
		}
		return err
	}
	return nil
}

func validateAppointmentInput(in model.AppointmentInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.PaymentStatus == model.PaymentStatusPaid && in.PaymentMethod == "" {
		return fmt.Errorf("%w: paymentMethod is required when paid", validation.ErrInvalid)
	}
	return nil
}

func applyAppointmentInput(a *model.Appointment, in model.AppointmentInput) {
	a.ServiceID = in.ServiceID
	a.CustomerName = in.CustomerName
	a.CustomerPhone = in.CustomerPhone
	a.CustomerEmail = in.CustomerEmail
	a.Date = in.Date
	a.Time = in.Time
	a.Notes = in.Notes

	a.Status = in.Status
	if a.Status == "" {
		a.Status = model.AppointmentStatusScheduled
	}

	if in.PaymentStatus == model.PaymentStatusPaid {
		a.MarkPaid(in.PaymentMethod)
	} else {
		a.MarkPending()
	}
}
