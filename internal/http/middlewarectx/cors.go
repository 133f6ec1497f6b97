// Package middlewarectx содержит HTTP middleware сервиса: CORS и ответы на preflight,
// перехват паник, логирование запросов, метрики Prometheus и ограничение частоты запросов.
package middlewarectx

import (
	"net/http"

	"github.com/go-chi/render"
)

// Значения CORS-заголовков, которые выставляются на каждый ответ.
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, OPTIONS"
	AllowHeaders = "Content-Type, Authorization"
)

// CORS выставляет разрешающие CORS-заголовки на каждый ответ.
// Запрос OPTIONS на любой путь завершается здесь ответом 200 с пустым JSON-объектом.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", AllowOrigin)
		h.Set("Access-Control-Allow-Methods", AllowMethods)
		h.Set("Access-Control-Allow-Headers", AllowHeaders)

		if r.Method == http.MethodOptions {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, struct{}{})
			return
		}
		next.ServeHTTP(w, r)
	})
}
