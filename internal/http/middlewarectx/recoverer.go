package middlewarectx

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/middleware"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
)

// Recoverer перехватывает панику обработчика и отвечает 500 в формате {error, message}.
// Должен стоять после CORS, чтобы ответ получил CORS-заголовки.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error("panic recovered",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("panic", fmt.Sprint(rvr)),
					slog.String("stack", string(debug.Stack())),
				)
				response.JSON(w, r, http.StatusInternalServerError,
					response.Error(response.KindInternal, "Internal Server Error"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
