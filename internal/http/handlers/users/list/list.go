// Package list реализует HTTP-обработчик получения списка всех пользователей реестра.
//
// Пароли в ответ не попадают; порядок совпадает с порядком добавления пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/lib/sl"
	"github.com/selzcore/mock-ofbiz/internal/models"
)

// Service описывает получение списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Response — тело ответа со списком пользователей.
type Response struct {
	Success bool                  `json:"success"`
	Total   int                   `json:"total"`
	Users   []models.UserListItem `json:"users"`
}

// Handler обрабатывает HTTP-запросы на получение списка пользователей.
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
// @Summary Список пользователей
// @Description Возвращает всех пользователей реестра без паролей.
// @Tags Users
// @Produce json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /users [get]
// @Router /rest/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Error(response.KindInternal, "failed to list users"))
		return
	}

	items := make([]models.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, u.ListItem())
	}

	log.Info("users listed", slog.Int("total", len(items)))
	response.JSON(w, r, http.StatusOK, Response{
		Success: true,
		Total:   len(items),
		Users:   items,
	})
}
