// Package directory содержит бизнес-логику заглушки справочника OFBiz:
// проверку учётных данных и выдачу токена, поиск, создание и список пользователей,
// а также создание организаций без сохранения.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/selzcore/mock-ofbiz/internal/lib/token"
	"github.com/selzcore/mock-ofbiz/internal/models"
	"github.com/selzcore/mock-ofbiz/internal/storage/memory"
)

// Значения по умолчанию для полей, не переданных в createUser и createPartyGroup.
const (
	DefaultLastName        = "User"
	DefaultPassword        = "password123"
	DefaultTenantID        = "default"
	DefaultEmailDomain     = "example.com"
	DefaultGroupNameSuffix = " Organization"
)

var (
	// ErrInvalidCredentials — пользователь не найден, отключён или пароль не совпал.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound — пользователь не найден или отключён.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists — логин уже занят.
	ErrUserExists = errors.New("user already exists")
	// ErrEmptyID — не передан обязательный идентификатор.
	ErrEmptyID = errors.New("empty identifier")
)

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userLoginID string) (models.User, bool, error)
	CreateUser(ctx context.Context, user models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AccessToken — ответ на запрос выдачи токена.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// CreateUserParams — параметры создания пользователя. Пустые поля заменяются значениями по умолчанию.
type CreateUserParams struct {
	UserLoginID string
	FirstName   string
	LastName    string
	Email       string
	Password    string
	TenantID    string
}

// Service реализует операции справочника поверх UserRepository.
type Service struct {
	users UserRepository
	now   func() time.Time
}

// NewService создаёт новый экземпляр Service.
func NewService(users UserRepository) *Service {
	return &Service{
		users: users,
		now:   time.Now,
	}
}

// WithClock подменяет источник времени для отметки создания пользователя.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Authenticate проверяет логин и пароль.
func (s *Service) Authenticate(ctx context.Context, userLoginID, password string) (models.User, error) {
	const op = "services.directory.Authenticate"
	user, ok, err := s.users.GetUser(ctx, userLoginID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || !user.Enabled || user.Password != password {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return user, nil
}

// IssueToken проверяет учётные данные и выдаёт непрозрачный токен.
func (s *Service) IssueToken(ctx context.Context, userLoginID, password string) (*AccessToken, error) {
	const op = "services.directory.IssueToken"
	user, err := s.Authenticate(ctx, userLoginID, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tok, err := token.Encode(user.UserLoginID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AccessToken{
		AccessToken: tok,
		TokenType:   token.Type,
		ExpiresIn:   token.ExpiresIn,
	}, nil
}

// UserInfo возвращает включённого пользователя по логину.
func (s *Service) UserInfo(ctx context.Context, userLoginID string) (models.User, error) {
	const op = "services.directory.UserInfo"
	user, ok, err := s.users.GetUser(ctx, userLoginID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || !user.Enabled {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return user, nil
}

// CreateUser создаёт включённого пользователя, подставляя значения по умолчанию.
// Если логин занят, реестр не меняется и возвращается ErrUserExists.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (models.User, error) {
	const op = "services.directory.CreateUser"
	if params.UserLoginID == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrEmptyID)
	}

	stamp := s.now().UnixMilli()
	user := models.User{
		UserLoginID:     params.UserLoginID,
		FirstName:       orDefault(params.FirstName, params.UserLoginID),
		LastName:        orDefault(params.LastName, DefaultLastName),
		Email:           orDefault(params.Email, params.UserLoginID+"@"+DefaultEmailDomain),
		Password:        orDefault(params.Password, DefaultPassword),
		TenantID:        orDefault(params.TenantID, DefaultTenantID),
		Enabled:         true,
		CreatedStamp:    &stamp,
		CreatedByPlugin: true,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, memory.ErrUserExists) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей, включая отключённых, в порядке добавления.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "services.directory.ListUsers"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// CreatePartyGroup формирует описание организации. Ничего не сохраняется.
func (s *Service) CreatePartyGroup(_ context.Context, partyID, groupName string) (models.PartyGroup, error) {
	const op = "services.directory.CreatePartyGroup"
	if partyID == "" {
		return models.PartyGroup{}, fmt.Errorf("%s: %w", op, ErrEmptyID)
	}
	return models.PartyGroup{
		PartyID:     partyID,
		GroupName:   orDefault(groupName, partyID+DefaultGroupNameSuffix),
		PartyTypeID: models.PartyTypeGroup,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
