// Package models содержит доменные модели справочника OFBiz: учётную запись
// пользователя и группу (организацию, тенант), которой он принадлежит.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

// User представляет учётную запись пользователя в справочнике.
type User struct {
	UserLoginID     string // Логин пользователя (уникальный ключ)
	Password        string // Пароль в открытом виде, только для тестов
	FirstName       string // Имя
	LastName        string // Фамилия
	Email           string // Электронная почта
	TenantID        string // Идентификатор тенанта
	Enabled         bool   // Отключённый пользователь ведёт себя как отсутствующий
	CreatedStamp    *int64 // Время создания в мс, только для созданных во время работы
	CreatedByPlugin bool   // Признак создания через сервис createUser
}

// Public возвращает представление пользователя без пароля,
// которое отдаётся в ответах getUserInfo и createUser.
func (u User) Public() UserInfo {
	return UserInfo{
		UserLoginID: u.UserLoginID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		TenantID:    u.TenantID,
	}
}

// UserInfo — данные пользователя, которые можно раскрывать клиенту.
type UserInfo struct {
	UserLoginID string `json:"userLoginId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	TenantID    string `json:"tenantId"`
}

// UserListItem — элемент ответа списка пользователей.
// Пароль отсутствует, поля создания заполняются только у созданных во время работы.
type UserListItem struct {
	UserInfo
	Enabled         bool   `json:"enabled"`
	CreatedStamp    *int64 `json:"createdStamp,omitempty"`
	CreatedByPlugin bool   `json:"createdByPlugin,omitempty"`
}

// ListItem возвращает представление пользователя для списка.
func (u User) ListItem() UserListItem {
	return UserListItem{
		UserInfo:        u.Public(),
		Enabled:         u.Enabled,
		CreatedStamp:    u.CreatedStamp,
		CreatedByPlugin: u.CreatedByPlugin,
	}
}
