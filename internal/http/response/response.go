// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Ошибки отдаются в виде
// {"error": ..., "message": ...}, успешные ответы сервисов — с полем success.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Виды ошибок, которые попадают в поле error ответа.
const (
	KindBadRequest         = "Bad Request"
	KindUnauthorized       = "Unauthorized"
	KindInvalidCredentials = "Invalid credentials"
	KindNotFound           = "Not Found"
	KindUserNotFound       = "User not found"
	KindConflict           = "Conflict"
	KindTooManyRequests    = "Too Many Requests"
	KindInternal           = "Internal Server Error"
)

// ErrorResponse описывает JSON‑ответ с ошибкой.
// Поле Error  — вид ошибки.
// Поле Message — человекочитаемое описание.
type ErrorResponse struct {
	Error   string `json:"error" example:"Bad Request"`
	Message string `json:"message" example:"userLoginId parameter required"`
}

// OKResponse описывает успешный ответ сервисов /rest/services/*.
type OKResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Error возвращает ErrorResponse с переданными видом и сообщением.
func Error(kind, msg string) ErrorResponse {
	return ErrorResponse{
		Error:   kind,
		Message: msg,
	}
}

// OKWithData возвращает успешный ответ с данными.
func OKWithData(data any) OKResponse {
	return OKResponse{
		Success: true,
		Data:    data,
	}
}

// OKWithMessage возвращает успешный ответ с сообщением и данными.
func OKWithMessage(msg string, data any) OKResponse {
	return OKResponse{
		Success: true,
		Message: msg,
		Data:    data,
	}
}

// JSON записывает v с указанным HTTP-статусом.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// ValidationError формирует ответ Bad Request на основе ошибок валидации.
// Для нарушений required берётся сообщение из required по имени поля,
// остальные нарушения описываются общим текстом. Сообщения объединяются через запятую.
func ValidationError(errs validator.ValidationErrors, required map[string]string) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			if msg, ok := required[err.Field()]; ok {
				errsMsgs = append(errsMsgs, msg)
				continue
			}
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return ErrorResponse{
		Error:   KindBadRequest,
		Message: strings.Join(errsMsgs, ", "),
	}
}
