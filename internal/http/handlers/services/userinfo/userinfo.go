// Package userinfo реализует сервис getUserInfo: поиск включённого пользователя по логину.
package userinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/selzcore/mock-ofbiz/internal/http/request"
	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/lib/sl"
	"github.com/selzcore/mock-ofbiz/internal/models"
	"github.com/selzcore/mock-ofbiz/internal/services/directory"
)

const msgLoginRequired = "userLoginId parameter required"

// Request — входные данные getUserInfo.
type Request struct {
	UserLoginID request.Text `json:"userLoginId" validate:"required"`
}

// Service описывает поиск пользователя.
type Service interface {
	UserInfo(ctx context.Context, userLoginID string) (models.User, error)
}

// Handler обрабатывает запросы getUserInfo.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Данные пользователя
// @Description Возвращает данные включённого пользователя без пароля.
// @Tags Services
// @Accept json
// @Produce json
// @Param request body Request true "Логин пользователя"
// @Success 200 {object} response.OKResponse{data=models.UserInfo}
// @Failure 400 {object} response.ErrorResponse "Не передан userLoginId"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден или отключён"
// @Router /rest/services/getUserInfo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.services.userinfo"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, err := request.DecodeJSON[Request](r)
	if err != nil {
		// Некорректное тело обрабатывается как пустой объект.
		log.Warn("failed to decode request body, using empty object", sl.Err(err))
	}

	if err := h.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			log.Warn("validation failed", sl.Err(err))
			response.JSON(w, r, http.StatusBadRequest,
				response.ValidationError(errs, map[string]string{"userLoginId": msgLoginRequired}))
			return
		}
		log.Error("validator failed", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error(response.KindBadRequest, msgLoginRequired))
		return
	}

	user, err := h.service.UserInfo(r.Context(), string(req.UserLoginID))
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			log.Info("user not found", sl.User(string(req.UserLoginID)))
			response.JSON(w, r, http.StatusNotFound, response.Error(response.KindUserNotFound,
				fmt.Sprintf("User %s not found or disabled", req.UserLoginID)))
			return
		}
		log.Error("failed to get user info", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError,
			response.Error(response.KindInternal, "failed to get user info"))
		return
	}

	log.Info("user info returned", sl.User(user.UserLoginID))
	response.JSON(w, r, http.StatusOK, response.OKWithData(user.Public()))
}
