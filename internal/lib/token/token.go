// Package token формирует непрозрачные токены доступа заглушки.
//
// Токен — это base64 от JSON {"userLoginId": ..., "exp": ...} без подписи.
// Decode восстанавливает из него логин.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// FarFutureExpiry — значение exp в токене (unix-время далеко в будущем).
	FarFutureExpiry int64 = 9999999999
	// Type — тип токена в ответе.
	Type = "Bearer"
	// ExpiresIn — время жизни токена в секундах, которое сообщается клиенту.
	ExpiresIn = 3600
)

// ErrMalformed возвращается, если строку не удаётся разобрать как токен.
var ErrMalformed = errors.New("malformed token")

// Claims — содержимое токена.
type Claims struct {
	UserLoginID string `json:"userLoginId"`
	Exp         int64  `json:"exp"`
}

// Encode возвращает токен для указанного логина.
func Encode(userLoginID string) (string, error) {
	const op = "token.Encode"
	raw, err := json.Marshal(Claims{UserLoginID: userLoginID, Exp: FarFutureExpiry})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode разбирает токен и возвращает его содержимое.
func Decode(tok string) (*Claims, error) {
	const op = "token.Decode"
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}
	var c Claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}
	if c.UserLoginID == "" {
		return nil, fmt.Errorf("%s: %w: empty userLoginId", op, ErrMalformed)
	}
	return &c, nil
}
