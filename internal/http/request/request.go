// Package request содержит разбор тел HTTP-запросов сервиса.
//
// DecodeJSON возвращает ошибку, а не пустой объект: решение подставить
// пустой запрос при ошибке разбора принимает обработчик.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var (
	// ErrEmptyBody возвращается, если у запроса нет тела.
	ErrEmptyBody = errors.New("empty request body")
	// ErrTrailingData возвращается, если после JSON-значения в теле есть что-то ещё.
	ErrTrailingData = errors.New("unexpected data after JSON value")
)

// Text — строковое поле запроса, которое принимает любое скалярное JSON-значение.
// Строка берётся как есть, null даёт пустую строку, остальные значения
// сохраняются в виде исходного JSON-текста (123 -> "123").
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if string(data) == "null" {
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// DecodeJSON разбирает тело запроса как один JSON-объект в значение типа T.
//
// Синтаксическая ошибка или данные после объекта дают нулевое значение T.
// При несовпадении типа значение возвращается вместе с ошибкой с уже
// заполненными полями.
func DecodeJSON[T any](r *http.Request) (T, error) {
	const op = "request.DecodeJSON"
	var v T
	if r.Body == nil || r.Body == http.NoBody {
		return v, fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return v, fmt.Errorf("%s: %w", op, err)
		}
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, ErrTrailingData)
	}
	return v, nil
}

// NewValidator возвращает валидатор, который в ошибках называет поля по их json-тегам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
