package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

type publicServiceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type paymentViewResponse struct {
	Appointment appointmentResponse   `json:"appointment"`
	Service     publicServiceResponse `json:"service"`
}

func newPublicServiceResponse(s *model.Service) publicServiceResponse {
	return publicServiceResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
	}
}

// BookingPage возвращает описание услуги для страницы записи по ссылке.
func (h *Handler) BookingPage(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service.PublicService(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		h.writeError(w, r, "get public service", err)
		return
	}
	writeJSON(w, http.StatusOK, newPublicServiceResponse(svc))
}

// Book создаёт запись клиента по ссылке.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookingInput
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.BookService(r.Context(), chi.URLParam(r, "serviceID"), req)
	if err != nil {
		h.writeError(w, r, "book service", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.newAppointmentResponse(a))
}

// PaymentPage возвращает запись и услугу для страницы оплаты.
func (h *Handler) PaymentPage(w http.ResponseWriter, r *http.Request) {
	a, svc, err := h.service.PaymentView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get payment view", err)
		return
	}

	writeJSON(w, http.StatusOK, paymentViewResponse{
		Appointment: h.newAppointmentResponse(a),
		Service:     newPublicServiceResponse(svc),
	})
}

// Pay проводит оплату записи клиентом.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.Pay(r.Context(), chi.URLParam(r, "id"), req.Method)
	if err != nil {
		h.writeError(w, r, "pay", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newAppointmentResponse(a))
}
