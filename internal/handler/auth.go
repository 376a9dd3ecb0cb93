package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

// accountResponse не раскрывает хеш пароля.
type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newAccountResponse(a *model.Account) accountResponse {
	return accountResponse{ID: a.ID, Email: a.Email}
}

// Register обрабатывает регистрацию нового поставщика.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "register", err)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, account.ID); err != nil {
		h.logger.Error("issue auth token error", zap.Error(err), zap.String("accountID", account.ID))
		writeErrorMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

// Login выполняет аутентификацию поставщика и установку cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "login", err)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, account.ID); err != nil {
		h.logger.Error("issue auth token error", zap.Error(err), zap.String("accountID", account.ID))
		writeErrorMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// Logout завершает сессию и удаляет cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), accountID); err != nil {
		h.writeError(w, r, "logout", err)
		return
	}

	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает текущую учётную запись.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	account, err := h.service.Account(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, "get account", err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}
