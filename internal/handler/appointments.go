package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

type appointmentResponse struct {
	model.Appointment
	PaymentLink string `json:"paymentLink"`
}

func (h *Handler) newAppointmentResponse(a *model.Appointment) appointmentResponse {
	return appointmentResponse{Appointment: *a, PaymentLink: h.service.PaymentLink(a.ID)}
}

type paymentRequest struct {
	Method model.PaymentMethod `json:"method"`
}

// ListAppointments возвращает записи текущего поставщика, опционально по статусу.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	filter := model.AppointmentFilter{
		Status: model.AppointmentStatus(r.URL.Query().Get("status")),
	}

	appointments, err := h.service.ListAppointments(r.Context(), accountID, filter)
	if err != nil {
		h.writeError(w, r, "list appointments", err)
		return
	}

	if len(appointments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]appointmentResponse, 0, len(appointments))
	for i := range appointments {
		resp = append(resp, h.newAppointmentResponse(&appointments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateAppointment создаёт запись от имени поставщика.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req model.AppointmentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.CreateAppointment(r.Context(), accountID, req)
	if err != nil {
		h.writeError(w, r, "create appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.newAppointmentResponse(a))
}

// GetAppointment возвращает запись вместе со ссылкой на оплату.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	a, err := h.service.GetAppointment(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newAppointmentResponse(a))
}

// UpdateAppointment изменяет запись.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req model.AppointmentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.UpdateAppointment(r.Context(), accountID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, "update appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newAppointmentResponse(a))
}

// DeleteAppointment удаляет запись.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, "delete appointment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment отмечает запись оплаченной, например при оплате наличными на месте.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.RecordPayment(r.Context(), accountID, chi.URLParam(r, "id"), req.Method)
	if err != nil {
		h.writeError(w, r, "record payment", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newAppointmentResponse(a))
}

// Dashboard возвращает сводку текущего поставщика.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	d, err := h.service.Dashboard(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
