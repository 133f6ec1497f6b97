// Package createpartygroup реализует сервис createPartyGroup.
//
// Организация не сохраняется: обработчик только проверяет запрос и возвращает
// описание группы с названием по умолчанию "{partyId} Organization".
package createpartygroup

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
)

const msgPartyRequired = "partyId is required"

// Request — входные данные createPartyGroup.
type Request struct {
	PartyID   request.Text `json:"partyId" validate:"required"`
	GroupName request.Text `json:"groupName,omitempty"`
}

// Service описывает создание организации.
type Service interface {
	CreatePartyGroup(ctx context.Context, partyID, groupName string) (models.PartyGroup, error)
}

// Handler обрабатывает запросы createPartyGroup.
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
// @Summary Создание организации
// @Description Проверяет запрос и возвращает описание организации. Ничего не сохраняет.
// @Tags Services
// @Accept json
// @Produce json
// @Param request body Request true "Данные организации"
// @Success 201 {object} response.OKResponse{data=models.PartyGroup}
// @Failure 400 {object} response.ErrorResponse "Не передан partyId"
// @Router /rest/services/createPartyGroup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.services.createpartygroup"

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
				response.ValidationError(errs, map[string]string{"partyId": msgPartyRequired}))
			return
		}
		log.Error("validator failed", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error(response.KindBadRequest, msgPartyRequired))
		return
	}

	group, err := h.service.CreatePartyGroup(r.Context(), string(req.PartyID), string(req.GroupName))
	if err != nil {
		log.Error("failed to create party group", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError,
			response.Error(response.KindInternal, "failed to create party group"))
		return
	}

	log.Info("party group created", slog.String("party_id", group.PartyID))
	response.JSON(w, r, http.StatusCreated, response.OKWithMessage(
		fmt.Sprintf("Party group %s created successfully", group.PartyID), group))
}
