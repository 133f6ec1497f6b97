// Package notfound отвечает на запросы к неизвестным путям и методам.
package notfound

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/lib/sl"
)

// Handler возвращает 404 с описанием пути. Используется и для неподдерживаемого метода.
type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notfound"
	h.log.Warn("endpoint not found",
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	response.JSON(w, r, http.StatusNotFound,
		response.Error(response.KindNotFound, fmt.Sprintf("Endpoint %s not found", r.URL.Path)))
}
