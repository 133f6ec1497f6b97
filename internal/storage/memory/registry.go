// Package memory реализует хранилище пользователей справочника в памяти процесса.
//
// Registry хранит записи по логину в порядке вставки и защищает их одним мьютексом.
// Данные не сохраняются между перезапусками; записи не обновляются и не удаляются.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/selzcore/mock-ofbiz/internal/models"
)

var (
	// ErrUserExists возвращается при попытке добавить пользователя с занятым логином.
	ErrUserExists = errors.New("user already exists")
	// ErrEmptyLogin возвращается при попытке добавить пользователя без логина.
	ErrEmptyLogin = errors.New("empty user login id")
)

// Registry — потокобезопасный реестр пользователей, упорядоченный по времени добавления.
type Registry struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

// New создаёт реестр и добавляет в него переданные записи в заданном порядке.
// Возвращает ошибку, если логины повторяются или пусты.
func New(seed ...models.User) (*Registry, error) {
	const op = "storage.memory.New"
	r := &Registry{
		users: make(map[string]models.User, len(seed)),
	}
	for _, u := range seed {
		if err := r.insert(u); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, u.UserLoginID, err)
		}
	}
	return r, nil
}

// GetUser возвращает копию записи по логину. Флаг enabled не проверяется.
func (r *Registry) GetUser(ctx context.Context, userLoginID string) (models.User, bool, error) {
	const op = "storage.memory.GetUser"
	select {
	case <-ctx.Done():
		return models.User{}, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userLoginID]
	return u, ok, nil
}

// CreateUser добавляет запись, если логин ещё не занят.
// Проверка и вставка выполняются под одной блокировкой.
func (r *Registry) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.memory.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insert(user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает копии всех записей в порядке добавления.
func (r *Registry) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.memory.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		res = append(res, r.users[id])
	}
	return res, nil
}

// Len возвращает количество записей в реестре.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// insert вызывается под r.mu либо до публикации реестра.
func (r *Registry) insert(user models.User) error {
	if user.UserLoginID == "" {
		return ErrEmptyLogin
	}
	if _, ok := r.users[user.UserLoginID]; ok {
		return ErrUserExists
	}
	r.users[user.UserLoginID] = user
	r.order = append(r.order, user.UserLoginID)
	return nil
}
