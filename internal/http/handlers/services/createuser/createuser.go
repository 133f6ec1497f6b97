// Package createuser реализует сервис createUser: создание пользователя в реестре.
//
// Не переданные поля заполняются значениями по умолчанию. Повторное создание
// с тем же логином возвращает 409 и не меняет реестр.
package createuser

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

const msgLoginRequired = "userLoginId is required"

// Request — входные данные createUser. Обязателен только userLoginId.
type Request struct {
	UserLoginID  request.Text `json:"userLoginId" validate:"required"`
	FirstName    request.Text `json:"firstName,omitempty"`
	LastName     request.Text `json:"lastName,omitempty"`
	EmailAddress request.Text `json:"emailAddress,omitempty"`
	UserPassword request.Text `json:"userPassword,omitempty"`
	TenantID     request.Text `json:"tenantId,omitempty"`
}

// Service описывает создание пользователя.
type Service interface {
	CreateUser(ctx context.Context, params directory.CreateUserParams) (models.User, error)
}

// Handler обрабатывает запросы createUser.
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
// @Summary Создание пользователя
// @Tags Services
// @Accept json
// @Produce json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.OKResponse{data=models.UserInfo}
// @Failure 400 {object} response.ErrorResponse "Не передан userLoginId"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Router /rest/services/createUser [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.services.createuser"

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

	user, err := h.service.CreateUser(r.Context(), directory.CreateUserParams{
		UserLoginID: string(req.UserLoginID),
		FirstName:   string(req.FirstName),
		LastName:    string(req.LastName),
		Email:       string(req.EmailAddress),
		Password:    string(req.UserPassword),
		TenantID:    string(req.TenantID),
	})
	if err != nil {
		if errors.Is(err, directory.ErrUserExists) {
			log.Info("user already exists", sl.User(string(req.UserLoginID)))
			response.JSON(w, r, http.StatusConflict, response.Error(response.KindConflict,
				fmt.Sprintf("User %s already exists", req.UserLoginID)))
			return
		}
		log.Error("failed to create user", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError,
			response.Error(response.KindInternal, "failed to create user"))
		return
	}

	log.Info("user created", sl.User(user.UserLoginID), slog.String("tenant_id", user.TenantID))
	response.JSON(w, r, http.StatusCreated, response.OKWithMessage(
		fmt.Sprintf("User %s created successfully", user.UserLoginID), user.Public()))
}
