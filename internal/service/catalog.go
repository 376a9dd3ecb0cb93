package service

import (
	"context"
	"fmt"

	"github.com/mmeshcher/trava-scheduler/internal/model"
	"github.com/mmeshcher/trava-scheduler/internal/validation"
)

// ListServices возвращает услуги учётной записи в порядке добавления.
func (s *Service) ListServices(ctx context.Context, accountID string) ([]model.Service, error) {
	return s.store.Services.ListByOwner(ctx, accountID)
}

// GetService возвращает услугу, принадлежащую учётной записи.
func (s *Service) GetService(ctx context.Context, accountID, id string) (*model.Service, error) {
	svc, ok, err := s.store.Services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(svc, ok, accountID); err != nil {
		return nil, err
	}
	return &svc, nil
}

// PublicService возвращает услугу без проверки владельца, для страницы записи по ссылке.
func (s *Service) PublicService(ctx context.Context, id string) (*model.Service, error) {
	svc, ok, err := s.store.Services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &svc, nil
}

// CreateService добавляет новую услугу учётной записи.
func (s *Service) CreateService(ctx context.Context, accountID string, in model.ServiceInput) (*model.Service, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	svc := model.Service{
		ID:          newID(),
		UserID:      accountID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Services.Upsert(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &svc, nil
}

// UpdateService изменяет услугу, сохраняя идентификатор и время создания.
func (s *Service) UpdateService(ctx context.Context, accountID, id string, in model.ServiceInput) (*model.Service, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	updated, found, err := s.store.Services.Update(ctx, id, func(svc *model.Service) error {
		if err := checkOwner(*svc, true, accountID); err != nil {
			return err
		}
		svc.Title = in.Title
		svc.Description = in.Description
		svc.Price = in.Price
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

// DeleteService удаляет услугу. Записи клиентов на эту услугу сохраняются.
func (s *Service) DeleteService(ctx context.Context, accountID, id string) error {
	if _, err := s.GetService(ctx, accountID, id); err != nil {
		return err
	}
	return s.store.Services.Delete(ctx, id)
}
