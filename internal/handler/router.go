package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/trava-scheduler/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса записи на услуги.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if h.limiter != nil {
					r.Use(h.limiter.Middleware)
				}

				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/services", h.ListServices)
			r.Post("/services", h.CreateService)
			r.Get("/services/{id}", h.GetService)
			r.Put("/services/{id}", h.UpdateService)
			r.Delete("/services/{id}", h.DeleteService)

			r.Get("/appointments", h.ListAppointments)
			r.Post("/appointments", h.CreateAppointment)
			r.Get("/appointments/{id}", h.GetAppointment)
			r.Put("/appointments/{id}", h.UpdateAppointment)
			r.Delete("/appointments/{id}", h.DeleteAppointment)
			r.Post("/appointments/{id}/payment", h.RecordPayment)

			r.Get("/dashboard", h.Dashboard)
		})

		r.Get("/book/{serviceID}", h.BookingPage)
		r.Post("/book/{serviceID}", h.Book)
		r.Get("/pay/{id}", h.PaymentPage)
		r.Post("/pay/{id}", h.Pay)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
