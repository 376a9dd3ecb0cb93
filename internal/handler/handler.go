// Package handler содержит HTTP-обработчики API сервиса записи на услуги.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/trava-scheduler/internal/middleware"
	"github.com/mmeshcher/trava-scheduler/internal/model"
	"github.com/mmeshcher/trava-scheduler/internal/payment"
	"github.com/mmeshcher/trava-scheduler/internal/service"
	"github.com/mmeshcher/trava-scheduler/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Register(ctx context.Context, email, password string) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*model.Account, error)
	Logout(ctx context.Context, accountID string) error
	Account(ctx context.Context, id string) (*model.Account, error)

	ListServices(ctx context.Context, accountID string) ([]model.Service, error)
	GetService(ctx context.Context, accountID, id string) (*model.Service, error)
	PublicService(ctx context.Context, id string) (*model.Service, error)
	CreateService(ctx context.Context, accountID string, in model.ServiceInput) (*model.Service, error)
	UpdateService(ctx context.Context, accountID, id string, in model.ServiceInput) (*model.Service, error)
	DeleteService(ctx context.Context, accountID, id string) error

	ListAppointments(ctx context.Context, accountID string, filter model.AppointmentFilter) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, accountID, id string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, accountID string, in model.AppointmentInput) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, accountID, id string, in model.AppointmentInput) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, accountID, id string) error
	RecordPayment(ctx context.Context, accountID, id string, method model.PaymentMethod) (*model.Appointment, error)

	BookService(ctx context.Context, serviceID string, in model.BookingInput) (*model.Appointment, error)
	PaymentView(ctx context.Context, id string) (*model.Appointment, *model.Service, error)
	Pay(ctx context.Context, id string, method model.PaymentMethod) (*model.Appointment, error)

	Dashboard(ctx context.Context, accountID string) (*model.Dashboard, error)
	BookingLink(serviceID string) string
	PaymentLink(appointmentID string) string
}

// Handler реализует HTTP-обработчики API сервиса записи на услуги.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	limiter        *middleware.RateLimiter
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// limiter ограничивает регистрацию и вход; nil отключает ограничение.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		limiter:        limiter,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// writeError переводит ошибку бизнес-логики в HTTP-статус.
// Неожиданные ошибки логируются и скрываются от клиента.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalid), errors.Is(err, payment.ErrUnknownMethod):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrAlreadyPaid):
		status = http.StatusConflict
	case errors.Is(err, payment.ErrNotImplemented):
		status = http.StatusNotImplemented
	default:
		h.logger.Error(op+" error", zap.Error(err), zap.String("path", r.URL.Path))
		writeErrorMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeErrorMessage(w, status, err.Error())
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return id, ok
}
