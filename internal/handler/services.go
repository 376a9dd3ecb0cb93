package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

type serviceResponse struct {
	model.Service
	BookingLink string `json:"bookingLink"`
}

func (h *Handler) newServiceResponse(s *model.Service) serviceResponse {
	return serviceResponse{Service: *s, BookingLink: h.service.BookingLink(s.ID)}
}

// ListServices возвращает услуги текущего поставщика.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListServices(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, "list services", err)
		return
	}

	if len(services) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]serviceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, h.newServiceResponse(&services[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateService добавляет услугу.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req model.ServiceInput
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.service.CreateService(r.Context(), accountID, req)
	if err != nil {
		h.writeError(w, r, "create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.newServiceResponse(svc))
}

// GetService возвращает услугу вместе со ссылкой для записи.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	svc, err := h.service.GetService(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newServiceResponse(svc))
}

// UpdateService изменяет услугу.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req model.ServiceInput
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.service.UpdateService(r.Context(), accountID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, "update service", err)
		return
	}
	writeJSON(w, http.StatusOK, h.newServiceResponse(svc))
}

// DeleteService удаляет услугу.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteService(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, "delete service", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
