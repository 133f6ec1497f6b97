// Package token реализует выдачу токена доступа по HTTP Basic Authentication.
//
// Отсутствующий или некорректный заголовок Authorization считается отсутствием
// учётных данных. Неизвестный пользователь, неверный пароль и отключённый
// пользователь дают один и тот же ответ.
package token

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/lib/sl"
	"github.com/selzcore/mock-ofbiz/internal/services/directory"
)

// Service описывает проверку учётных данных и выдачу токена.
type Service interface {
	IssueToken(ctx context.Context, userLoginID, password string) (*directory.AccessToken, error)
}

// Handler обрабатывает запросы на выдачу токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выдача токена
// @Description Проверяет логин и пароль из заголовка Basic и возвращает непрозрачный токен.
// @Tags Auth
// @Produce json
// @Security BasicAuth
// @Success 200 {object} directory.AccessToken
// @Failure 401 {object} response.ErrorResponse "Нет учётных данных или они неверны"
// @Router /rest/auth/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, password, ok := r.BasicAuth()
	if !ok || username == "" || password == "" {
		log.Warn("basic authentication missing or malformed")
		response.JSON(w, r, http.StatusUnauthorized,
			response.Error(response.KindUnauthorized, "Basic authentication required"))
		return
	}

	tok, err := h.service.IssueToken(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidCredentials) {
			log.Warn("invalid credentials", sl.User(username))
			response.JSON(w, r, http.StatusUnauthorized,
				response.Error(response.KindInvalidCredentials, "Username or password incorrect"))
			return
		}
		log.Error("failed to issue token", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError,
			response.Error(response.KindInternal, "failed to issue token"))
		return
	}

	log.Info("token issued", sl.User(username))
	response.JSON(w, r, http.StatusOK, tok)
}
