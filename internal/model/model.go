// Package model содержит доменные сущности сервиса записи на услуги.
package model

import "time"

// Account представляет зарегистрированного поставщика услуг.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RecordID возвращает идентификатор учётной записи.
func (a Account) RecordID() string { return a.ID }

// OwnerID возвращает владельца записи; учётная запись владеет сама собой.
func (a Account) OwnerID() string { return a.ID }

// Service описывает услугу, которую поставщик предлагает клиентам.
type Service struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID возвращает идентификатор услуги.
func (s Service) RecordID() string { return s.ID }

// OwnerID возвращает идентификатор учётной записи владельца услуги.
func (s Service) OwnerID() string { return s.UserID }

// AppointmentStatus описывает состояние записи клиента.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// PaymentStatus описывает состояние оплаты записи.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMethod описывает способ оплаты.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodStripe PaymentMethod = "stripe"
)

// Appointment описывает запись клиента на услугу.
type Appointment struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	ServiceID     string            `json:"serviceId"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	CustomerEmail string            `json:"customerEmail"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
	PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus     `json:"paymentStatus"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// RecordID возвращает идентификатор записи.
func (a Appointment) RecordID() string { return a.ID }

// OwnerID возвращает идентификатор поставщика, которому принадлежит запись.
func (a Appointment) OwnerID() string { return a.UserID }

// IsPaid сообщает, оплачена ли запись.
func (a Appointment) IsPaid() bool { return a.PaymentStatus == PaymentStatusPaid }

// MarkPaid переводит запись в оплаченное состояние одновременно с указанием способа оплаты.
func (a *Appointment) MarkPaid(method PaymentMethod) {
	a.PaymentStatus = PaymentStatusPaid
	a.PaymentMethod = method
}

// MarkPending сбрасывает оплату; способ оплаты без оплаты не хранится.
func (a *Appointment) MarkPending() {
	a.PaymentStatus = PaymentStatusPending
	a.PaymentMethod = ""
}

// Dashboard содержит сводку по услугам и записям поставщика.
type Dashboard struct {
	Services        int     `json:"services"`
	Appointments    int     `json:"appointments"`
	PendingPayments int     `json:"pendingPayments"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// Credentials содержит данные для регистрации и входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ServiceInput содержит редактируемые поля услуги.
type ServiceInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required"`
}

// AppointmentInput содержит поля записи, которые заполняет поставщик.
// Пустые статусы означают scheduled и pending.
type AppointmentInput struct {
	ServiceID     string            `json:"serviceId" validate:"required"`
	CustomerName  string            `json:"customerName" validate:"required"`
	CustomerPhone string            `json:"customerPhone" validate:"required"`
	CustomerEmail string            `json:"customerEmail" validate:"omitempty,email"`
	Date          string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string            `json:"time" validate:"required,datetime=15:04"`
	Status        AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	PaymentStatus PaymentStatus     `json:"paymentStatus" validate:"omitempty,oneof=pending paid"`
	PaymentMethod PaymentMethod     `json:"paymentMethod" validate:"omitempty,oneof=cash stripe"`
	Notes         string            `json:"notes"`
}

// BookingInput содержит поля, которые клиент заполняет по ссылке на запись.
type BookingInput struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required,datetime=15:04"`
	Notes         string `json:"notes"`
}

// AppointmentFilter ограничивает список записей; пустой статус означает все записи.
type AppointmentFilter struct {
	Status AppointmentStatus
}
