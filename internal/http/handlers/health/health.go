// Package health реализует проверку доступности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/lib/sl"
)

// Response — тело ответа проверки доступности.
type Response struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"Mock OFBiz REST API is running"`
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
// @Router /rest/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	h.log.Debug("health check",
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	response.JSON(w, r, http.StatusOK, Response{
		Status:  "OK",
		Message: "Mock OFBiz REST API is running",
	})
}
